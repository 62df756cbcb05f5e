// Package log provides slog loggers that never write API keys.
//
// newsverdict talks to NewsAPI, Gemini, OpenAI and Ollama, and their keys tend to
// leak into log lines through request URLs and wrapped HTTP errors. SecureHandler
// wraps any slog.Handler and, before a record reaches it:
//   - masks attributes whose key names look sensitive (api_key, authorization, token)
//   - masks string values that look like whole secrets (Google "AIza" keys, OpenAI
//     "sk-" keys, bearer tokens, long hex or alphanumeric keys)
//   - scrubs secrets embedded in longer strings and errors, such as the apiKey query
//     parameter of a NewsAPI URL
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("fetch failed", "error", err) // apiKey=... in err is redacted
package log
