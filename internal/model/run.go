package model

import "time"

// Status is the processing state of a single article within a run.
type Status string

const (
	// StatusPending is the state before any step has run.
	StatusPending Status = "pending"
	// StatusAnalyzed means the analyzer succeeded and validation has not run yet.
	StatusAnalyzed Status = "analyzed"
	// StatusValidated means both the analyzer and the validator succeeded.
	StatusValidated Status = "validated"
	// StatusAnalysisFailed means the analyzer call failed; validation was skipped.
	StatusAnalysisFailed Status = "analysis_failed"
	// StatusValidationFailed means the validator call failed.
	StatusValidationFailed Status = "validation_failed"
)

// ArticleRun carries one article through the processing pipeline.
// Steps fill in Analysis and Validation and advance Status.
type ArticleRun struct {
	Record     ArticleRecord
	Analysis   AnalysisResult
	Validation *ValidationResult
	Status     Status

	// Err holds the message of the last step failure, if any.
	Err string

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewArticleRun creates a pending run for record.
func NewArticleRun(record ArticleRecord) *ArticleRun {
	return &ArticleRun{
		Record: record,
		Analysis: AnalysisResult{
			ArticleID: record.ID,
			Sentiment: SentimentUnknown,
		},
		Status:    StatusPending,
		StartedAt: time.Now(),
	}
}

// Failed reports whether any step failed for this article.
func (r *ArticleRun) Failed() bool {
	return r.Status == StatusAnalysisFailed || r.Status == StatusValidationFailed
}
