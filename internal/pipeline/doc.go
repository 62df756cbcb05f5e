// Package pipeline carries articles through analysis and validation.
//
// A Pipeline runs an ordered list of Steps against one model.ArticleRun.
// AnalyzeStep and ValidateStep are the two steps of a news run; Runner
// normalizes raw articles and feeds them through a Pipeline one at a time,
// in input order.
package pipeline
