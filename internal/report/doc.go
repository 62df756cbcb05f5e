// Package report renders run reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text summary for terminal display
//   - JSONWriter and FullJSONWriter: structured JSON for tools
//   - MarkdownWriter: a shareable document with tables and a sentiment chart
//
// SaveRawArticles and SaveFiles write the artifacts of a run into an output
// directory.
package report
