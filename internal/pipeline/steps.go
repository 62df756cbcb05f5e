package pipeline

import (
	"context"

	"github.com/nao1215/newsverdict/internal/model"
)

// Analyzer produces the analysis of one article.
type Analyzer interface {
	Analyze(ctx context.Context, record model.ArticleRecord) (model.AnalysisResult, error)
}

// Validator judges an analysis against its article.
type Validator interface {
	Validate(ctx context.Context, record model.ArticleRecord, analysis model.AnalysisResult) (model.ValidationResult, error)
}

// AnalyzeStep runs the analyzer.
type AnalyzeStep struct {
	analyzer Analyzer
}

// NewAnalyzeStep creates an analysis step.
func NewAnalyzeStep(analyzer Analyzer) *AnalyzeStep {
	return &AnalyzeStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do analyzes run.Record. On failure the run keeps an Unknown-sentiment
// analysis and is marked analysis_failed.
func (s *AnalyzeStep) Do(ctx context.Context, run *model.ArticleRun) error {
	result, err := s.analyzer.Analyze(ctx, run.Record)
	if err != nil {
		run.Analysis = model.AnalysisResult{
			ArticleID: run.Record.ID,
			Sentiment: model.SentimentUnknown,
		}
		run.Status = model.StatusAnalysisFailed
		return err
	}

	result.ArticleID = run.Record.ID
	run.Analysis = result
	run.Status = model.StatusAnalyzed
	return nil
}

// ValidateStep runs the validator. It does nothing for an article whose
// analysis failed.
type ValidateStep struct {
	validator Validator
}

// NewValidateStep creates a validation step.
func NewValidateStep(validator Validator) *ValidateStep {
	return &ValidateStep{validator: validator}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do validates run.Analysis. On failure run.Validation stays nil and the run
// is marked validation_failed.
func (s *ValidateStep) Do(ctx context.Context, run *model.ArticleRun) error {
	if run.Status == model.StatusAnalysisFailed {
		return nil
	}

	result, err := s.validator.Validate(ctx, run.Record, run.Analysis)
	if err != nil {
		run.Validation = nil
		run.Status = model.StatusValidationFailed
		return err
	}

	result.ArticleID = run.Record.ID
	run.Validation = &result
	run.Status = model.StatusValidated
	return nil
}
