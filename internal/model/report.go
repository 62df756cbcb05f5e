package model

import "time"

// ReportSummary holds the counts shown at the top of a report.
// It is always computed from the complete set of details.
type ReportSummary struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Unknown  int `json:"unknown"`

	Correct          int `json:"correct"`
	PartiallyCorrect int `json:"partially_correct"`
	Incorrect        int `json:"incorrect"`

	// Unverified counts articles without a recognized verdict: those never
	// validated and those whose validator reply carried no known verdict.
	Unverified int `json:"unverified"`
}

// Total returns the number of articles covered by the summary.
func (s ReportSummary) Total() int {
	return s.Positive + s.Negative + s.Neutral + s.Unknown
}

// Count returns the number of articles with the given sentiment.
func (s ReportSummary) Count(sentiment Sentiment) int {
	switch sentiment {
	case SentimentPositive:
		return s.Positive
	case SentimentNegative:
		return s.Negative
	case SentimentNeutral:
		return s.Neutral
	default:
		return s.Unknown
	}
}

// VerdictCount returns the number of articles with the given verdict.
// VerdictUnknown counts every article without a recognized verdict.
func (s ReportSummary) VerdictCount(verdict Verdict) int {
	switch verdict {
	case VerdictCorrect:
		return s.Correct
	case VerdictPartiallyCorrect:
		return s.PartiallyCorrect
	case VerdictIncorrect:
		return s.Incorrect
	default:
		return s.Unverified
	}
}

// DetailEntry is one article's row in a report.
type DetailEntry struct {
	ArticleID    string     `json:"article_id"`
	Title        string     `json:"title"`
	Source       string     `json:"source"`
	URL          string     `json:"url"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Gist         string     `json:"gist"`
	Sentiment    Sentiment  `json:"sentiment"`
	Tone         string     `json:"tone"`
	Entities     []string   `json:"entities,omitempty"`
	WhyItMatters string     `json:"why_it_matters,omitempty"`
	Verdict      Verdict    `json:"verdict"`
	Confidence   *float64   `json:"confidence,omitempty"`
	Issues       []string   `json:"issues"`
	Strengths    []string   `json:"strengths,omitempty"`
	Assessment   string     `json:"overall_assessment,omitempty"`
	Status       Status     `json:"status"`
	Error        string     `json:"error,omitempty"`

	// Analysis and Validation keep the collaborators' raw answers for audit.
	Analysis   string `json:"analysis,omitempty"`
	Validation string `json:"validation,omitempty"`
}

// Report is the result of one complete run.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Query       string        `json:"query"`
	Source      string        `json:"source"`
	Backend     string        `json:"backend"`
	Fetched     int           `json:"fetched"`
	Skipped     int           `json:"skipped"`
	Summary     ReportSummary `json:"summary"`
	Details     []DetailEntry `json:"details"`
}

// Analyzed returns the number of articles whose analysis succeeded.
func (r *Report) Analyzed() int {
	n := 0
	for _, d := range r.Details {
		if d.Status == StatusAnalyzed || d.Status == StatusValidated || d.Status == StatusValidationFailed {
			n++
		}
	}
	return n
}

// Validated returns the number of articles that received a verdict.
func (r *Report) Validated() int {
	n := 0
	for _, d := range r.Details {
		if d.Status == StatusValidated {
			n++
		}
	}
	return n
}

// Failed returns the details whose processing failed.
func (r *Report) Failed() []DetailEntry {
	var failed []DetailEntry
	for _, d := range r.Details {
		if d.Status == StatusAnalysisFailed || d.Status == StatusValidationFailed {
			failed = append(failed, d)
		}
	}
	return failed
}
