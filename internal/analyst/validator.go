package analyst

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/newsverdict/internal/llm"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/parse"
)

const validatePrompt = `You are a validation expert. Your job is to validate whether an AI-generated analysis is accurate and high-quality.

ORIGINAL ARTICLE:
Title: %s
Description: %s
Content: %s

AI ANALYSIS TO VALIDATE:
%s

VALIDATION TASK:
1. Check if the summary accurately reflects the article content
2. Verify the sentiment classification is appropriate
3. Confirm key entities are correctly identified
4. Assess if "why this matters" is reasonable and insightful

Respond ONLY with a JSON object in this exact format:
{
  "verdict": "correct|partially_correct|incorrect",
  "confidence": 0.0-1.0,
  "issues": ["list of specific issues found, or empty array if none"],
  "strengths": ["list of what the analysis did well"],
  "overall_assessment": "brief overall evaluation"
}

Do not include any text before or after the JSON.
`

// Validator checks an analysis against its article.
type Validator struct {
	gen    llm.Generator
	stage  Stage
	logger *slog.Logger
}

// NewValidator creates a Validator that calls gen with the settings of stage.
func NewValidator(gen llm.Generator, stage Stage, opts ...Option) *Validator {
	o := buildOptions(opts)
	return &Validator{gen: gen, stage: stage, logger: o.logger}
}

// ValidatePrompt renders the validation prompt. The analysis is quoted as the
// model produced it; a result without raw text is rendered from its fields.
func ValidatePrompt(record model.ArticleRecord, analysis model.AnalysisResult) string {
	return fmt.Sprintf(validatePrompt, record.Title, record.Gist, record.Content, analysisText(analysis))
}

func analysisText(a model.AnalysisResult) string {
	if strings.TrimSpace(a.RawText) != "" {
		return a.RawText
	}

	sentiment := a.SentimentText
	if sentiment == "" {
		sentiment = a.Sentiment.String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "GIST: %s\n", a.Gist)
	fmt.Fprintf(&b, "SENTIMENT: %s\n", sentiment)
	fmt.Fprintf(&b, "TONE: %s\n", a.Tone)
	fmt.Fprintf(&b, "KEY ENTITIES: %s\n", strings.Join(a.Entities, ", "))
	fmt.Fprintf(&b, "WHY THIS MATTERS: %s\n", a.WhyItMatters)
	return b.String()
}

// Validate returns the verdict on analysis. Unparseable answers normalize to
// an Unknown verdict; only generator failures are returned as errors.
func (v *Validator) Validate(ctx context.Context, record model.ArticleRecord, analysis model.AnalysisResult) (model.ValidationResult, error) {
	text, err := v.gen.Generate(ctx, ValidatePrompt(record, analysis), llm.Params{
		Purpose:     llm.PurposeValidate,
		Model:       v.stage.Model,
		Temperature: v.stage.Temperature,
		MaxTokens:   v.stage.MaxTokens,
	})
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("validate %q: %w", record.Title, err)
	}

	result := parse.NormalizeValidation(text)
	result.ArticleID = record.ID
	if result.Verdict == model.VerdictUnknown {
		v.logger.Debug("verdict not recognized", "article_id", record.ID)
	}
	return result, nil
}
