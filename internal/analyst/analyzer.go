package analyst

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/newsverdict/internal/llm"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/parse"
)

const analyzePrompt = `You are a news intelligence analyst.
Analyze the following news article and provide:

1. **Gist**: A concise 1-2 sentence summary of the main news
2. **Sentiment**: Classify as Positive, Negative, or Neutral
3. **Tone**: Identify the tone (choose one: urgent, analytical, satirical, balanced, alarming, optimistic, critical, neutral)
4. **Key Entities**: List important people, organizations, or locations mentioned
5. **Why This Matters**: Brief explanation of significance

Article:
Title: %s
Description: %s
Content: %s

Format your response clearly with these exact headings:
GIST:
SENTIMENT:
TONE:
KEY ENTITIES:
WHY THIS MATTERS:
`

// Analyzer extracts a structured analysis from an article.
type Analyzer struct {
	gen    llm.Generator
	stage  Stage
	logger *slog.Logger
}

// Stage holds the model settings of one analysis stage.
type Stage struct {
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Option configures an Analyzer or a Validator.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// NewAnalyzer creates an Analyzer that calls gen with the settings of stage.
func NewAnalyzer(gen llm.Generator, stage Stage, opts ...Option) *Analyzer {
	o := buildOptions(opts)
	return &Analyzer{gen: gen, stage: stage, logger: o.logger}
}

// AnalyzePrompt renders the analyzer prompt for record.
func AnalyzePrompt(record model.ArticleRecord) string {
	return fmt.Sprintf(analyzePrompt, record.Title, record.Gist, record.Content)
}

// Analyze returns the analysis of record. Model output that cannot be parsed
// yields Unknown sentiment with the raw answer kept; only generator failures
// are returned as errors.
func (a *Analyzer) Analyze(ctx context.Context, record model.ArticleRecord) (model.AnalysisResult, error) {
	text, err := a.gen.Generate(ctx, AnalyzePrompt(record), llm.Params{
		Purpose:     llm.PurposeAnalyze,
		Model:       a.stage.Model,
		Temperature: a.stage.Temperature,
		MaxTokens:   a.stage.MaxTokens,
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze %q: %w", record.Title, err)
	}

	result := parse.ParseAnalysis(text)
	result.ArticleID = record.ID
	if result.Sentiment == model.SentimentUnknown {
		a.logger.Debug("sentiment not recognized",
			"article_id", record.ID,
			"sentiment_text", result.SentimentText,
		)
	}
	return result, nil
}
