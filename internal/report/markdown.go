package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/newsverdict/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter

	// includeRaw appends the raw model answers of each article in
	// collapsible blocks.
	includeRaw bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithRawResponses includes the raw analyzer and validator answers.
func WithRawResponses(include bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.includeRaw = include
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSentimentSummary(md, report)
	w.writeVerdictSummary(md, report)
	w.writeAlert(md, report)
	w.writeDetails(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("News Analysis Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Query", cell(report.Query)},
			{"Source", cell(report.Source)},
			{"Backend", cell(report.Backend)},
			{"Articles Fetched", strconv.Itoa(report.Fetched)},
			{"Articles Skipped", strconv.Itoa(report.Skipped)},
			{"Articles Analyzed", strconv.Itoa(report.Analyzed())},
			{"Articles Validated", strconv.Itoa(report.Validated())},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSentimentSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary
	rows := make([][]string, 0, len(model.Sentiments)+1)
	for _, sentiment := range model.Sentiments {
		rows = append(rows, []string{sentiment.String(), strconv.Itoa(s.Count(sentiment))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(s.Total()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Sentiment", "Articles"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Total() > 0 {
		w.writePieChart(md, s)
	}
}

// writePieChart writes a mermaid pie chart of the sentiment distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.ReportSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Sentiment Distribution"),
		piechart.WithShowData(true),
	)

	for _, sentiment := range model.Sentiments {
		if n := s.Count(sentiment); n > 0 {
			chart.LabelAndIntValue(sentiment.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeVerdictSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Validation")
	md.PlainText("")

	s := report.Summary
	rows := make([][]string, 0, len(model.Verdicts)+1)
	for _, v := range model.Verdicts {
		rows = append(rows, []string{v.Symbol() + " " + VerdictTitle(v), strconv.Itoa(s.VerdictCount(v))})
	}
	rows = append(rows, []string{model.VerdictUnknown.Symbol() + " Unverified", strconv.Itoa(s.Unverified)})

	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Articles"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the worst validation outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	s := report.Summary
	switch {
	case s.Total() == 0:
		md.Note("No articles were analyzed in this run.")
	case s.Incorrect > 0:
		md.Cautionf("%d analysis(es) were judged incorrect and should not be relied on.", s.Incorrect)
	case s.PartiallyCorrect > 0:
		md.Warningf("%d analysis(es) were judged partially correct. Check the issues below.", s.PartiallyCorrect)
	case s.Unverified > 0:
		md.Importantf("%d analysis(es) could not be verified.", s.Unverified)
	default:
		md.Tip("Every analysis was verified as correct.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeDetails(md *markdown.Markdown, report *model.Report) {
	md.H2("Detailed Analysis")
	md.PlainText("")

	if len(report.Details) == 0 {
		md.PlainText("No articles.")
		md.PlainText("")
		return
	}

	for i, d := range report.Details {
		md.H3(fmt.Sprintf("Article %d: %q", i+1, d.Title))
		md.PlainText("")

		source := orDash(d.Source)
		if d.URL != "" {
			source = markdown.Link(source, d.URL)
		}

		items := []string{
			"**Source:** " + source,
		}
		if d.PublishedAt != nil {
			items = append(items, "**Published:** "+d.PublishedAt.Format("2006-01-02 15:04 MST"))
		}
		items = append(items,
			"**Gist:** "+orDash(d.Gist),
			"**Sentiment:** "+d.Sentiment.String(),
			"**Tone:** "+orDash(d.Tone),
		)
		if len(d.Entities) > 0 {
			items = append(items, "**Key Entities:** "+strings.Join(d.Entities, ", "))
		}
		if d.WhyItMatters != "" {
			items = append(items, "**Why This Matters:** "+d.WhyItMatters)
		}
		items = append(items, "**Validation:** "+verdictLine(d))
		if d.Error != "" {
			items = append(items, "**Error:** "+d.Error)
		}
		md.BulletList(items...)
		md.PlainText("")

		if len(d.Strengths) > 0 {
			md.PlainText("**Strengths:**")
			md.PlainText("")
			md.BulletList(d.Strengths...)
			md.PlainText("")
		}
		if len(d.Issues) > 0 {
			md.PlainText("**Issues Found:**")
			md.PlainText("")
			md.BulletList(d.Issues...)
			md.PlainText("")
		}

		if w.includeRaw {
			if d.Analysis != "" {
				md.Details("Analyzer response", d.Analysis)
			}
			if d.Validation != "" {
				md.Details("Validator response", d.Validation)
			}
			md.PlainText("")
		}

		md.HorizontalRule()
		md.PlainText("")
	}
}

// verdictLine renders e.g. "✓ Correct (92%). Accurate summary."
func verdictLine(d model.DetailEntry) string {
	line := d.Verdict.Symbol() + " " + VerdictTitle(d.Verdict)
	if d.Confidence != nil {
		line += fmt.Sprintf(" (%.0f%%)", *d.Confidence*100)
	}
	if d.Assessment != "" {
		line += ". " + d.Assessment
	}
	return line
}

// cell escapes table separators.
func cell(s string) string {
	return strings.ReplaceAll(orDash(s), "|", `\|`)
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.PlainText("*Report generated by newsverdict*")
}
