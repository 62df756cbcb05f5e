package model

import "testing"

func TestParseVerdict(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Verdict
	}{
		{"correct", VerdictCorrect},
		{"CORRECT", VerdictCorrect},
		{"partially_correct", VerdictPartiallyCorrect},
		{"Partially Correct", VerdictPartiallyCorrect},
		{"partially-correct", VerdictPartiallyCorrect},
		{"incorrect", VerdictIncorrect},
		{"maybe", VerdictUnknown},
		{"", VerdictUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, _ := ParseVerdict(tc.input)
			if got != tc.expected {
				t.Errorf("ParseVerdict(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestVerdictSymbol(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		verdict  Verdict
		expected string
	}{
		{VerdictCorrect, "✓"},
		{VerdictPartiallyCorrect, "~"},
		{VerdictIncorrect, "✗"},
		{VerdictUnknown, "?"},
		{Verdict(42), "?"},
	}

	for _, tc := range testCases {
		t.Run(tc.verdict.String(), func(t *testing.T) {
			t.Parallel()
			if got := tc.verdict.Symbol(); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}
