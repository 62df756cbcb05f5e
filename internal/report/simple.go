package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/newsverdict/internal/model"
)

// SimpleWriter outputs a plain text summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds each article's tone, entities and issues.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeArticles(&sb, report)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       NEWS ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:    %s\n", report.RunID)
	fmt.Fprintf(sb, "Date:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Query:     %s\n", orDash(report.Query))
	fmt.Fprintf(sb, "Source:    %s\n", orDash(report.Source))
	fmt.Fprintf(sb, "Backend:   %s\n", orDash(report.Backend))
	fmt.Fprintf(sb, "Articles:  %d fetched, %d skipped, %d analyzed, %d validated\n",
		report.Fetched, report.Skipped, report.Analyzed(), report.Validated())
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.Report) {
	s := report.Summary

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nSENTIMENT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, sentiment := range model.Sentiments {
		fmt.Fprintf(sb, "  %-10s %d\n", sentiment.String()+":", s.Count(sentiment))
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nVALIDATION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, v := range model.Verdicts {
		fmt.Fprintf(sb, "  %s %-18s %d\n", v.Symbol(), VerdictTitle(v)+":", s.VerdictCount(v))
	}
	fmt.Fprintf(sb, "  %s %-18s %d\n", model.VerdictUnknown.Symbol(), "Unverified:", s.Unverified)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeArticles(sb *strings.Builder, report *model.Report) {
	if len(report.Details) == 0 {
		sb.WriteString("No articles analyzed.\n")
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nARTICLES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	for i, d := range report.Details {
		fmt.Fprintf(sb, "\n%d. %s\n", i+1, d.Title)
		fmt.Fprintf(sb, "   Source:    %s\n", orDash(d.Source))
		fmt.Fprintf(sb, "   Gist:      %s\n", truncate(orDash(d.Gist), 200))
		fmt.Fprintf(sb, "   Sentiment: %s\n", d.Sentiment)
		fmt.Fprintf(sb, "   Verdict:   %s %s\n", d.Verdict.Symbol(), VerdictTitle(d.Verdict))

		if w.verbose {
			fmt.Fprintf(sb, "   Tone:      %s\n", orDash(d.Tone))
			if len(d.Entities) > 0 {
				fmt.Fprintf(sb, "   Entities:  %s\n", strings.Join(d.Entities, ", "))
			}
			for _, issue := range d.Issues {
				fmt.Fprintf(sb, "   Issue:     %s\n", issue)
			}
		}
		if d.Error != "" {
			fmt.Fprintf(sb, "   Error:     %s\n", d.Error)
		}
	}
	sb.WriteString("\n")
}
