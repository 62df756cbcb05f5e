package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvNewsAPIKey     = "NEWSAPI_API_KEY"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvOllamaHost     = "OLLAMA_HOST"
	EnvRedisAddr      = "REDIS_ADDR"
	EnvNewsQuery      = "NEWS_QUERY"
	EnvMaxArticles    = "MAX_ARTICLES"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv copies values from the process environment onto cfg.
func ApplyEnv(cfg *Config) error {
	return ApplyEnvFrom(cfg, os.LookupEnv)
}

// ApplyEnvFrom copies values returned by lookup onto cfg.
// REQUEST_TIMEOUT accepts a duration ("10s") or a whole number of seconds ("10").
func ApplyEnvFrom(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvNewsAPIKey, &cfg.NewsAPIKey)
	str(EnvGeminiAPIKey, &cfg.GeminiAPIKey)
	str(EnvOpenAIAPIKey, &cfg.OpenAIAPIKey)
	str(EnvOpenAIBaseURL, &cfg.OpenAIBaseURL)
	str(EnvOllamaHost, &cfg.OllamaHost)
	str(EnvNewsQuery, &cfg.Query)

	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		cfg.RedisAddr = v
		cfg.CacheEnabled = true
	}

	if v, ok := lookup(EnvMaxArticles); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvMaxArticles, v)
		}
		cfg.MaxArticles = n
	}

	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvRequestTimeout, v)
		}
		cfg.RequestTimeout = d
	}

	return nil
}

func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
