package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/newsverdict/internal/model"
)

// JSONWriter outputs reports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(report)
}

// writeJSON marshals v and writes it to the output with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps a report with the metadata of the program that made it.
type JSONReport struct {
	// Version is the newsverdict version that generated this report.
	Version string `json:"version"`

	Metadata JSONMetadata  `json:"metadata"`
	Report   *model.Report `json:"report"`
}

// JSONMetadata holds the headline numbers of a run.
type JSONMetadata struct {
	TotalArticles int `json:"total_articles"`
	Analyzed      int `json:"analyzed"`
	Validated     int `json:"validated"`
	Failed        int `json:"failed"`

	// SentimentBreakdown maps each sentiment name to its count.
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.Report, version string) *JSONReport {
	breakdown := make(map[string]int, len(model.Sentiments))
	for _, s := range model.Sentiments {
		breakdown[s.String()] = report.Summary.Count(s)
	}

	return &JSONReport{
		Version: version,
		Metadata: JSONMetadata{
			TotalArticles:      len(report.Details),
			Analyzed:           report.Analyzed(),
			Validated:          report.Validated(),
			Failed:             len(report.Failed()),
			SentimentBreakdown: breakdown,
		},
		Report: report,
	}
}

// FullJSONWriter outputs complete reports with a metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}
