package log

import (
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys contains attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"x-goog-api-key":      true,
	"cookie":              true,
	"set-cookie":          true,

	"api_key":        true,
	"apikey":         true,
	"api-key":        true,
	"key":            true,
	"newsapi_key":    true,
	"gemini_api_key": true,
	"openai_api_key": true,
	"access_token":   true,
	"refresh_token":  true,
	"password":       true,
	"secret":         true,
	"token":          true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
// The bare word "key" is only matched exactly above; "article_key" or
// "cache_key" are ordinary identifiers here.
var sensitiveKeywords = []string{
	"password", "secret", "token", "auth", "credential", "api_key", "apikey",
}

// secretPatterns match values that are secrets in their entirety.
var secretPatterns = []*regexp.Regexp{
	// Google API keys (Gemini)
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),

	// OpenAI keys, including project keys
	regexp.MustCompile(`^sk-(proj-)?[A-Za-z0-9_-]{20,}$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// NewsAPI keys and other long alphanumeric tokens
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
}

// embeddedSecrets match secrets inside longer text. Each pattern's first
// group is kept and the rest of the match is replaced with MaskValue.
var embeddedSecrets = []*regexp.Regexp{
	// apiKey=..., api_key=..., key=... in URLs and form bodies
	regexp.MustCompile(`(?i)([?&](?:apikey|api_key|key)=)[^&\s"']+`),

	// Authorization: Bearer ...
	regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`),

	regexp.MustCompile(`()AIza[0-9A-Za-z_-]{35}`),
	regexp.MustCompile(`()sk-(?:proj-)?[A-Za-z0-9_-]{20,}`),
}

// isSensitiveKey reports whether an attribute key names a secret.
func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(k, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue reports whether value as a whole looks like a secret.
func isSensitiveValue(value string) bool {
	for _, pattern := range secretPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// Scrub replaces secrets embedded in s with MaskValue.
func Scrub(s string) string {
	for _, pattern := range embeddedSecrets {
		s = pattern.ReplaceAllString(s, "${1}"+MaskValue)
	}
	return s
}
