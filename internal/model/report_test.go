package model

import "testing"

func TestReportSummaryCounts(t *testing.T) {
	t.Parallel()

	s := ReportSummary{Positive: 2, Negative: 1, Neutral: 3, Unknown: 1, Correct: 4, Unverified: 2}

	if s.Total() != 7 {
		t.Errorf("expected total 7, got %d", s.Total())
	}
	if s.Count(SentimentNeutral) != 3 {
		t.Errorf("expected 3 neutral, got %d", s.Count(SentimentNeutral))
	}
	if s.VerdictCount(VerdictCorrect) != 4 {
		t.Errorf("expected 4 correct, got %d", s.VerdictCount(VerdictCorrect))
	}
	if s.VerdictCount(VerdictUnknown) != 2 {
		t.Errorf("expected 2 unverified, got %d", s.VerdictCount(VerdictUnknown))
	}
}

func TestReportStatusCounters(t *testing.T) {
	t.Parallel()

	r := &Report{Details: []DetailEntry{
		{Status: StatusValidated},
		{Status: StatusValidationFailed},
		{Status: StatusAnalysisFailed},
		{Status: StatusValidated},
	}}

	if r.Analyzed() != 3 {
		t.Errorf("expected 3 analyzed, got %d", r.Analyzed())
	}
	if r.Validated() != 2 {
		t.Errorf("expected 2 validated, got %d", r.Validated())
	}
	if len(r.Failed()) != 2 {
		t.Errorf("expected 2 failed, got %d", len(r.Failed()))
	}
}

func TestNewArticleRun(t *testing.T) {
	t.Parallel()

	run := NewArticleRun(ArticleRecord{ID: "abc"})
	if run.Status != StatusPending {
		t.Errorf("expected pending, got %s", run.Status)
	}
	if run.Analysis.ArticleID != "abc" || run.Analysis.Sentiment != SentimentUnknown {
		t.Errorf("unexpected initial analysis %+v", run.Analysis)
	}
	if run.Failed() {
		t.Error("new run should not be failed")
	}
}
