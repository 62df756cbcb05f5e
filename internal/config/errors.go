package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the loaders so callers
// can use errors.Is() for programmatic handling.
var (
	// ErrInvalidSource is returned when the news source is not "newsapi" or "rss".
	ErrInvalidSource = errors.New("invalid source: must be newsapi or rss")

	// ErrNoQuery is returned when NewsAPI is selected without a search query.
	ErrNoQuery = errors.New("no query specified: provide --query or NEWS_QUERY")

	// ErrNoFeeds is returned when RSS is selected without any feed URL.
	ErrNoFeeds = errors.New("no feeds specified: provide --feed or news.feeds in the config file")

	// ErrInvalidMaxArticles is returned when the article limit is not positive.
	ErrInvalidMaxArticles = errors.New("invalid max articles: must be positive")

	// ErrInvalidTimeout is returned when a request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMinContentLength is returned when the minimum content length is negative.
	ErrInvalidMinContentLength = errors.New("invalid min content length: must be non-negative")

	// ErrInvalidBackend is returned for an unknown text-generation backend.
	ErrInvalidBackend = errors.New("invalid backend: must be gemini, openai, ollama or mock")

	// ErrInvalidTemperature is returned when a stage temperature is outside [0,2].
	ErrInvalidTemperature = errors.New("invalid temperature: must be between 0 and 2")

	// ErrInvalidMaxTokens is returned when a stage token limit is not positive.
	ErrInvalidMaxTokens = errors.New("invalid max tokens: must be positive")

	// ErrInvalidCacheTTL is returned when caching is enabled with a non-positive TTL.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be positive")

	// ErrInvalidFormat is returned for an unknown summary format.
	ErrInvalidFormat = errors.New("invalid format: must be text, json or markdown")

	// ErrInvalidEnv is returned when an environment variable cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")
)
