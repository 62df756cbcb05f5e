// Package model defines the core data structures used throughout newsverdict.
//
// This package contains the following main types:
//   - RawArticle / ArticleRecord: a fetched article and its normalized form
//   - AnalysisResult: gist, sentiment and tone extracted from analyzer output
//   - ValidationResult: the validator's verdict on an analysis
//   - ArticleRun: per-article processing state owned by the pipeline
//   - Report: the aggregated result of one run, persisted and rendered
//
// The types are serializable to JSON for report output and database storage.
package model
