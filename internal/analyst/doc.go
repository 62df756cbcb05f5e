// Package analyst asks a text generator to analyze a news article and then to
// check that analysis.
//
// Analyzer produces the gist, sentiment, tone, key entities and significance
// of an article. Validator hands the article and the analysis to a second
// model call and turns its answer into a verdict. Both degrade instead of
// failing on malformed model output; they return an error only when the
// generator itself fails.
package analyst
