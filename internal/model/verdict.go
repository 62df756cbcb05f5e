package model

import (
	"fmt"
	"strings"
)

// Verdict is the validator's judgment of an analysis.
type Verdict int

const (
	// VerdictUnknown means no verdict could be determined, including the case
	// where the validator was never called or failed.
	VerdictUnknown Verdict = iota

	// VerdictCorrect means the analysis faithfully reflects the article.
	VerdictCorrect

	// VerdictPartiallyCorrect means the analysis is usable but has issues.
	VerdictPartiallyCorrect

	// VerdictIncorrect means the analysis misrepresents the article.
	VerdictIncorrect
)

// Verdicts lists the known verdict values in report order.
var Verdicts = []Verdict{
	VerdictCorrect,
	VerdictPartiallyCorrect,
	VerdictIncorrect,
	VerdictUnknown,
}

// String returns the wire name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictPartiallyCorrect:
		return "partially_correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Symbol returns the one-character marker used in reports.
func (v Verdict) Symbol() string {
	switch v {
	case VerdictCorrect:
		return "✓"
	case VerdictPartiallyCorrect:
		return "~"
	case VerdictIncorrect:
		return "✗"
	default:
		return "?"
	}
}

// ParseVerdict maps a validator verdict label to a Verdict.
// Matching is case-insensitive and treats spaces, hyphens and underscores alike,
// so "Partially Correct", "partially-correct" and "PARTIALLY_CORRECT" are equal.
func ParseVerdict(s string) (Verdict, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	switch norm {
	case "correct":
		return VerdictCorrect, true
	case "partially_correct":
		return VerdictPartiallyCorrect, true
	case "incorrect":
		return VerdictIncorrect, true
	default:
		return VerdictUnknown, false
	}
}

// MarshalText encodes the verdict as its wire name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a verdict wire name; unrecognized names become VerdictUnknown.
func (v *Verdict) UnmarshalText(text []byte) error {
	if v == nil {
		return fmt.Errorf("model: UnmarshalText on nil *Verdict")
	}
	parsed, _ := ParseVerdict(string(text))
	*v = parsed
	return nil
}
