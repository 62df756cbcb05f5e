package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/newsverdict/internal/model"
)

// Runner processes a batch of raw articles through a pipeline, one article at
// a time and in input order.
type Runner struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner around p.
func NewRunner(p *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{pipeline: p}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// NewNewsPipeline builds the analyze-then-validate pipeline. It continues past
// step failures so that every article ends with a recorded status.
func NewNewsPipeline(analyzer Analyzer, validator Validator, opts ...Option) *Pipeline {
	p := New(append([]Option{WithContinueOnError(true)}, opts...)...)
	p.AddSteps(NewAnalyzeStep(analyzer), NewValidateStep(validator))
	return p
}

// Progress is called after each processed article with its 1-based position
// among the valid articles.
type Progress func(run *model.ArticleRun, index, total int)

// Run normalizes raws, drops invalid and duplicate articles and executes the pipeline for
// each remaining one. It returns the runs in input order and the number of
// skipped articles. Per-article failures never abort the run; on
// cancellation the runs finished so far are returned with the context error.
func (r *Runner) Run(ctx context.Context, raws []model.RawArticle, progress Progress) ([]*model.ArticleRun, int, error) {
	records := make([]model.ArticleRecord, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	skipped := 0
	for i, raw := range raws {
		record, err := model.Normalize(raw)
		if err != nil {
			skipped++
			var verr *model.ValidationError
			reason := err.Error()
			if errors.As(err, &verr) {
				reason = verr.Reason.String()
			}
			r.logger.Warn("skipping invalid article",
				"index", i,
				"url", raw.URL,
				"reason", reason,
			)
			continue
		}
		if _, dup := seen[record.ID]; dup {
			// Results are keyed by article ID; a repeat would overwrite the first.
			skipped++
			r.logger.Warn("skipping duplicate article",
				"index", i,
				"article_id", record.ID,
				"url", raw.URL,
			)
			continue
		}
		seen[record.ID] = struct{}{}
		records = append(records, record)
	}

	r.logger.Info("processing articles",
		"valid", len(records),
		"skipped", skipped,
		"steps", r.pipeline.StepNames(),
	)

	runs := make([]*model.ArticleRun, 0, len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return runs, skipped, err
		}

		run := model.NewArticleRun(record)
		err := r.pipeline.Execute(ctx, run)
		run.FinishedAt = time.Now()

		if ctx.Err() != nil {
			// The interrupted article is dropped; its result is incomplete.
			return runs, skipped, ctx.Err()
		}
		if err != nil || run.Failed() {
			r.logger.Warn("article failed",
				"article_id", record.ID,
				"status", run.Status,
				"error", run.Err,
			)
		}

		runs = append(runs, run)
		if progress != nil {
			progress(run, i+1, len(records))
		}
	}

	return runs, skipped, nil
}
