package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/report"
)

// RunComparison holds the differences between two runs.
type RunComparison struct {
	// Previous is the run compared against.
	Previous RunMetadata `json:"previous_run"`

	// Current is the run being inspected.
	Current RunMetadata `json:"current_run"`

	// NewArticles appear only in the current run.
	NewArticles []ArticleRef `json:"new_articles,omitempty"`

	// DroppedArticles appear only in the previous run.
	DroppedArticles []ArticleRef `json:"dropped_articles,omitempty"`

	// Changed lists articles present in both runs whose sentiment or verdict differs.
	Changed []ArticleChange `json:"changed,omitempty"`

	// UnchangedCount is the number of shared articles with identical outcomes.
	UnchangedCount int `json:"unchanged_count"`

	// SentimentDelta is current minus previous per sentiment.
	SentimentDelta map[string]int `json:"sentiment_delta"`

	// VerdictDelta is current minus previous per verdict.
	VerdictDelta map[string]int `json:"verdict_delta"`
}

// RunMetadata describes one side of a comparison.
type RunMetadata struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Query       string              `json:"query"`
	Backend     string              `json:"backend"`
	Articles    int                 `json:"articles"`
	Summary     model.ReportSummary `json:"summary"`
}

// ArticleRef identifies an article with its outcome in one run.
type ArticleRef struct {
	ArticleID string          `json:"article_id"`
	Title     string          `json:"title"`
	Sentiment model.Sentiment `json:"sentiment"`
	Verdict   model.Verdict   `json:"verdict"`
}

// ArticleChange is an article whose outcome moved between runs.
type ArticleChange struct {
	ArticleID         string          `json:"article_id"`
	Title             string          `json:"title"`
	PreviousSentiment model.Sentiment `json:"previous_sentiment"`
	CurrentSentiment  model.Sentiment `json:"current_sentiment"`
	PreviousVerdict   model.Verdict   `json:"previous_verdict"`
	CurrentVerdict    model.Verdict   `json:"current_verdict"`
}

func newRunMetadata(r *model.Report) RunMetadata {
	return RunMetadata{
		ID:          r.RunID,
		GeneratedAt: r.GeneratedAt,
		Query:       r.Query,
		Backend:     r.Backend,
		Articles:    len(r.Details),
		Summary:     r.Summary,
	}
}

func newArticleRef(d model.DetailEntry) ArticleRef {
	return ArticleRef{
		ArticleID: d.ArticleID,
		Title:     d.Title,
		Sentiment: d.Sentiment,
		Verdict:   d.Verdict,
	}
}

// compareRuns compares previous with current. Articles are matched by ID.
func compareRuns(previous, current *model.Report) *RunComparison {
	result := &RunComparison{
		Previous:       newRunMetadata(previous),
		Current:        newRunMetadata(current),
		SentimentDelta: make(map[string]int, len(model.Sentiments)),
		VerdictDelta:   make(map[string]int, len(model.Verdicts)),
	}

	previousByID := make(map[string]model.DetailEntry, len(previous.Details))
	for _, d := range previous.Details {
		previousByID[d.ArticleID] = d
	}
	currentByID := make(map[string]model.DetailEntry, len(current.Details))
	for _, d := range current.Details {
		currentByID[d.ArticleID] = d
	}

	for _, cur := range current.Details {
		prev, ok := previousByID[cur.ArticleID]
		if !ok {
			result.NewArticles = append(result.NewArticles, newArticleRef(cur))
			continue
		}
		if prev.Sentiment == cur.Sentiment && prev.Verdict == cur.Verdict {
			result.UnchangedCount++
			continue
		}
		result.Changed = append(result.Changed, ArticleChange{
			ArticleID:         cur.ArticleID,
			Title:             cur.Title,
			PreviousSentiment: prev.Sentiment,
			CurrentSentiment:  cur.Sentiment,
			PreviousVerdict:   prev.Verdict,
			CurrentVerdict:    cur.Verdict,
		})
	}
	for _, prev := range previous.Details {
		if _, ok := currentByID[prev.ArticleID]; !ok {
			result.DroppedArticles = append(result.DroppedArticles, newArticleRef(prev))
		}
	}

	sort.Slice(result.NewArticles, func(i, j int) bool {
		return result.NewArticles[i].Title < result.NewArticles[j].Title
	})
	sort.Slice(result.DroppedArticles, func(i, j int) bool {
		return result.DroppedArticles[i].Title < result.DroppedArticles[j].Title
	})
	sort.Slice(result.Changed, func(i, j int) bool {
		return result.Changed[i].Title < result.Changed[j].Title
	})

	for _, s := range model.Sentiments {
		result.SentimentDelta[s.String()] = current.Summary.Count(s) - previous.Summary.Count(s)
	}
	for _, v := range model.Verdicts {
		result.VerdictDelta[v.String()] = current.Summary.VerdictCount(v) - previous.Summary.VerdictCount(v)
	}

	return result
}

// outputComparisonJSON writes the comparison as indented JSON.
func outputComparisonJSON(w io.Writer, result *RunComparison) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown writes the comparison as a Markdown document.
func outputComparisonMarkdown(w io.Writer, result *RunComparison) error {
	md := markdown.NewMarkdown(w)
	md.H1("Run Comparison")
	md.PlainText("")

	rows := [][]string{
		{"Run", result.Previous.ID, result.Current.ID, "-"},
		{"Date", result.Previous.GeneratedAt.Format("2006-01-02 15:04"), result.Current.GeneratedAt.Format("2006-01-02 15:04"), "-"},
		{"Articles", strconv.Itoa(result.Previous.Articles), strconv.Itoa(result.Current.Articles),
			formatDelta(result.Current.Articles - result.Previous.Articles)},
	}
	for _, s := range model.Sentiments {
		rows = append(rows, []string{
			s.String(),
			strconv.Itoa(result.Previous.Summary.Count(s)),
			strconv.Itoa(result.Current.Summary.Count(s)),
			formatDelta(result.SentimentDelta[s.String()]),
		})
	}
	for _, v := range model.Verdicts {
		rows = append(rows, []string{
			report.VerdictTitle(v),
			strconv.Itoa(result.Previous.Summary.VerdictCount(v)),
			strconv.Itoa(result.Current.Summary.VerdictCount(v)),
			formatDelta(result.VerdictDelta[v.String()]),
		})
	}

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.NewArticles) > 0 {
		md.H2(fmt.Sprintf("New Articles (%d)", len(result.NewArticles)))
		md.PlainText("")
		md.BulletList(refLines(result.NewArticles)...)
		md.PlainText("")
	}
	if len(result.DroppedArticles) > 0 {
		md.H2(fmt.Sprintf("Dropped Articles (%d)", len(result.DroppedArticles)))
		md.PlainText("")
		md.BulletList(refLines(result.DroppedArticles)...)
		md.PlainText("")
	}
	if len(result.Changed) > 0 {
		md.H2(fmt.Sprintf("Changed Articles (%d)", len(result.Changed)))
		md.PlainText("")
		md.BulletList(changeLines(result.Changed)...)
		md.PlainText("")
	}
	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainText(fmt.Sprintf("*%d articles unchanged*", result.UnchangedCount))
	}

	return md.Build()
}

// outputComparisonText writes the comparison for a terminal.
func outputComparisonText(w io.Writer, result *RunComparison) error {
	var sb strings.Builder

	sb.WriteString("Run Comparison\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "\nPrevious run: %s (%s)\n", result.Previous.ID, result.Previous.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Current run:  %s (%s)\n", result.Current.ID, result.Current.GeneratedAt.Format("2006-01-02 15:04:05"))

	sb.WriteString("\nSummary:\n")
	fmt.Fprintf(&sb, "  %-18s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	sb.WriteString("  " + strings.Repeat("-", 52) + "\n")
	for _, s := range model.Sentiments {
		fmt.Fprintf(&sb, "  %-18s  %-10d  %-10d  %-10s\n", s.String(),
			result.Previous.Summary.Count(s), result.Current.Summary.Count(s),
			formatDelta(result.SentimentDelta[s.String()]))
	}
	for _, v := range model.Verdicts {
		fmt.Fprintf(&sb, "  %-18s  %-10d  %-10d  %-10s\n", report.VerdictTitle(v),
			result.Previous.Summary.VerdictCount(v), result.Current.Summary.VerdictCount(v),
			formatDelta(result.VerdictDelta[v.String()]))
	}

	if len(result.NewArticles) > 0 {
		fmt.Fprintf(&sb, "\nNew Articles (%d):\n", len(result.NewArticles))
		for _, line := range refLines(result.NewArticles) {
			sb.WriteString("  [+] " + line + "\n")
		}
	}
	if len(result.DroppedArticles) > 0 {
		fmt.Fprintf(&sb, "\nDropped Articles (%d):\n", len(result.DroppedArticles))
		for _, line := range refLines(result.DroppedArticles) {
			sb.WriteString("  [-] " + line + "\n")
		}
	}
	if len(result.Changed) > 0 {
		fmt.Fprintf(&sb, "\nChanged Articles (%d):\n", len(result.Changed))
		for _, line := range changeLines(result.Changed) {
			sb.WriteString("  [*] " + line + "\n")
		}
	}
	if result.UnchangedCount > 0 {
		fmt.Fprintf(&sb, "\nUnchanged: %d articles\n", result.UnchangedCount)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func refLines(refs []ArticleRef) []string {
	lines := make([]string, 0, len(refs))
	for _, r := range refs {
		lines = append(lines, fmt.Sprintf("%s (%s, %s)", r.Title, r.Sentiment, r.Verdict))
	}
	return lines
}

func changeLines(changes []ArticleChange) []string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, fmt.Sprintf("%s: %s -> %s, %s -> %s",
			c.Title, c.PreviousSentiment, c.CurrentSentiment, c.PreviousVerdict, c.CurrentVerdict))
	}
	return lines
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
