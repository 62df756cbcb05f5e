// Package parse turns free-form text produced by language models into typed records.
//
// Both entry points are total: ParseAnalysis and NormalizeValidation never fail and
// never panic. Each is an ordered chain of strategies (structured decode, labeled-line
// scan, keyword fallback); the first strategy that recognizes its input wins, and the
// last one always succeeds with Unknown values. The input text is always preserved in
// the result's RawText field.
package parse
