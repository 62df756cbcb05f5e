// Package fetch retrieves news articles from external sources.
//
// Two sources are provided: NewsAPI, queried over its JSON API with retries on
// throttling and server errors, and RSS/Atom feeds, fetched concurrently and
// flattened to plain text. Both return model.RawArticle values in a stable order;
// validation of the articles is left to model.Normalize.
package fetch
