package aggregate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/newsverdict/internal/model"
)

func item(id string, s model.Sentiment, v *model.ValidationResult) Item {
	return Item{
		Record:     model.ArticleRecord{ID: id, Title: "title " + id, Gist: "N/A"},
		Analysis:   model.AnalysisResult{ArticleID: id, Gist: "gist " + id, Sentiment: s, RawText: "raw"},
		Validation: v,
		Status:     model.StatusValidated,
	}
}

func TestAggregateSummary(t *testing.T) {
	t.Parallel()

	items := []Item{
		item("a", model.SentimentPositive, &model.ValidationResult{Verdict: model.VerdictCorrect}),
		item("b", model.SentimentNegative, &model.ValidationResult{Verdict: model.VerdictCorrect}),
		item("c", model.SentimentNeutral, &model.ValidationResult{Verdict: model.VerdictPartiallyCorrect}),
	}

	summary, details := Aggregate(items)
	want := model.ReportSummary{
		Positive: 1, Negative: 1, Neutral: 1, Unknown: 0,
		Correct: 2, PartiallyCorrect: 1,
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("unexpected summary (-want +got):\n%s", diff)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(details))
	}
}

func TestAggregateUnknownCountedSeparately(t *testing.T) {
	t.Parallel()

	items := []Item{
		item("a", model.SentimentUnknown, nil),
		item("b", model.SentimentPositive, nil),
		item("c", model.SentimentUnknown, nil),
	}

	summary, _ := Aggregate(items)
	if summary.Unknown != 2 || summary.Positive != 1 || summary.Negative != 0 || summary.Neutral != 0 {
		t.Errorf("unexpected sentiment counts %+v", summary)
	}
	if summary.Unverified != 3 {
		t.Errorf("expected 3 unverified, got %d", summary.Unverified)
	}
}

func TestAggregateUnrecognizedVerdictIsUnverified(t *testing.T) {
	t.Parallel()

	items := []Item{
		item("a", model.SentimentPositive, &model.ValidationResult{Verdict: model.VerdictUnknown}),
		item("b", model.SentimentNegative, nil),
		item("c", model.SentimentNeutral, &model.ValidationResult{Verdict: model.VerdictCorrect}),
	}

	summary, details := Aggregate(items)
	if summary.Unverified != 2 {
		t.Errorf("expected 2 unverified, got %d", summary.Unverified)
	}
	if summary.Correct != 1 {
		t.Errorf("expected 1 correct, got %d", summary.Correct)
	}
	if details[0].Verdict != model.VerdictUnknown {
		t.Errorf("expected unknown verdict in detail, got %v", details[0].Verdict)
	}
}

func TestAggregatePreservesOrder(t *testing.T) {
	t.Parallel()

	items := []Item{
		item("z", model.SentimentNegative, &model.ValidationResult{Verdict: model.VerdictIncorrect}),
		item("a", model.SentimentPositive, nil),
		item("m", model.SentimentUnknown, &model.ValidationResult{Verdict: model.VerdictCorrect}),
		item("b", model.SentimentNeutral, &model.ValidationResult{Verdict: model.VerdictPartiallyCorrect}),
	}

	_, details := Aggregate(items)
	got := make([]string, 0, len(details))
	for _, d := range details {
		got = append(got, d.ArticleID)
	}
	if diff := cmp.Diff([]string{"z", "a", "m", "b"}, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestAggregateMissingValidation(t *testing.T) {
	t.Parallel()

	it := item("a", model.SentimentPositive, nil)
	it.Status = model.StatusValidationFailed
	it.Err = "quota exceeded"

	_, details := Aggregate([]Item{it})
	d := details[0]
	if d.Verdict != model.VerdictUnknown {
		t.Errorf("expected unknown verdict, got %v", d.Verdict)
	}
	if d.Issues == nil || len(d.Issues) != 0 {
		t.Errorf("expected empty issues, got %#v", d.Issues)
	}
	if d.Confidence != nil {
		t.Error("expected nil confidence")
	}
	if d.Status != model.StatusValidationFailed || d.Error != "quota exceeded" {
		t.Errorf("status and error not carried: %s %q", d.Status, d.Error)
	}
}

func TestAggregateValidationFields(t *testing.T) {
	t.Parallel()

	conf := 0.75
	v := &model.ValidationResult{
		Verdict:    model.VerdictPartiallyCorrect,
		Confidence: &conf,
		Issues:     []string{"missing data"},
		Strengths:  []string{"clear"},
		Assessment: "ok",
		RawText:    "{...}",
	}
	_, details := Aggregate([]Item{item("a", model.SentimentNegative, v)})

	d := details[0]
	if d.Confidence == nil || *d.Confidence != 0.75 {
		t.Errorf("unexpected confidence %v", d.Confidence)
	}
	if diff := cmp.Diff([]string{"missing data"}, d.Issues); diff != "" {
		t.Errorf("unexpected issues (-want +got):\n%s", diff)
	}
	if d.Assessment != "ok" || d.Validation != "{...}" {
		t.Errorf("assessment or raw validation not carried: %+v", d)
	}
}

func TestAggregateGistFallback(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 250)

	testCases := []struct {
		name     string
		analysis model.AnalysisResult
		expected string
	}{
		{"analysis gist", model.AnalysisResult{Gist: "g", RawText: "raw"}, "g"},
		{"short raw text", model.AnalysisResult{RawText: "free text"}, "free text"},
		{"long raw text", model.AnalysisResult{RawText: long}, strings.Repeat("x", 200) + "..."},
		{"record gist", model.AnalysisResult{}, "record gist"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			it := Item{Record: model.ArticleRecord{Gist: "record gist"}, Analysis: tc.analysis}
			_, details := Aggregate([]Item{it})
			if details[0].Gist != tc.expected {
				t.Errorf("expected gist %q, got %q", tc.expected, details[0].Gist)
			}
		})
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	summary, details := Aggregate(nil)
	if summary != (model.ReportSummary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if details == nil || len(details) != 0 {
		t.Errorf("expected empty non-nil details, got %#v", details)
	}
}

func TestFromRuns(t *testing.T) {
	t.Parallel()

	run := model.NewArticleRun(model.ArticleRecord{ID: "x"})
	run.Status = model.StatusAnalysisFailed
	run.Err = "boom"

	items := FromRuns([]*model.ArticleRun{run})
	if len(items) != 1 || items[0].Record.ID != "x" || items[0].Status != model.StatusAnalysisFailed || items[0].Err != "boom" {
		t.Errorf("unexpected items %+v", items)
	}
}
