// Package main provides the entry point for the newsverdict CLI.
//
// newsverdict fetches news articles, asks one model call to analyze each
// article's gist, sentiment and tone, asks a second call to check that
// analysis, and writes the results as JSON and Markdown reports.
//
// Usage:
//
//	newsverdict run --query "India politics"
//	newsverdict history --list
//	newsverdict serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
