// Package aggregate combines per-article results into report summary counts and rows.
package aggregate

import (
	"github.com/nao1215/newsverdict/internal/model"
)

// fallbackGistLength is how much of the analyzer text stands in for a missing gist.
const fallbackGistLength = 200

// Item is one article's inputs to Aggregate.
type Item struct {
	Record   model.ArticleRecord
	Analysis model.AnalysisResult

	// Validation is nil when the validator was not called or failed.
	Validation *model.ValidationResult

	// Status and Err are copied into the detail row unchanged.
	Status model.Status
	Err    string
}

// FromRuns converts pipeline runs into aggregation items, preserving order.
func FromRuns(runs []*model.ArticleRun) []Item {
	items := make([]Item, 0, len(runs))
	for _, r := range runs {
		items = append(items, Item{
			Record:     r.Record,
			Analysis:   r.Analysis,
			Validation: r.Validation,
			Status:     r.Status,
			Err:        r.Err,
		})
	}
	return items
}

// Aggregate computes the summary and one detail row per item, in input order.
// It has no side effects; callers recompute on every report.
func Aggregate(items []Item) (model.ReportSummary, []model.DetailEntry) {
	var summary model.ReportSummary
	details := make([]model.DetailEntry, 0, len(items))

	for _, item := range items {
		switch item.Analysis.Sentiment {
		case model.SentimentPositive:
			summary.Positive++
		case model.SentimentNegative:
			summary.Negative++
		case model.SentimentNeutral:
			summary.Neutral++
		default:
			summary.Unknown++
		}

		entry := detail(item)
		switch entry.Verdict {
		case model.VerdictCorrect:
			summary.Correct++
		case model.VerdictPartiallyCorrect:
			summary.PartiallyCorrect++
		case model.VerdictIncorrect:
			summary.Incorrect++
		default:
			summary.Unverified++
		}
		details = append(details, entry)
	}

	return summary, details
}

func detail(item Item) model.DetailEntry {
	entry := model.DetailEntry{
		ArticleID:    item.Record.ID,
		Title:        item.Record.Title,
		Source:       item.Record.Source,
		URL:          item.Record.URL,
		PublishedAt:  item.Record.PublishedAt,
		Gist:         gistOf(item),
		Sentiment:    item.Analysis.Sentiment,
		Tone:         item.Analysis.Tone,
		Entities:     item.Analysis.Entities,
		WhyItMatters: item.Analysis.WhyItMatters,
		Verdict:      model.VerdictUnknown,
		Issues:       []string{},
		Status:       item.Status,
		Error:        item.Err,
		Analysis:     item.Analysis.RawText,
	}

	if v := item.Validation; v != nil {
		entry.Verdict = v.Verdict
		entry.Confidence = v.Confidence
		if v.Issues != nil {
			entry.Issues = v.Issues
		}
		entry.Strengths = v.Strengths
		entry.Assessment = v.Assessment
		entry.Validation = v.RawText
	}
	return entry
}

func gistOf(item Item) string {
	if item.Analysis.Gist != "" {
		return item.Analysis.Gist
	}
	if raw := item.Analysis.RawText; raw != "" {
		return truncate(raw, fallbackGistLength)
	}
	return item.Record.Gist
}

// truncate cuts s to at most n runes, appending "..." when it was shortened.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
