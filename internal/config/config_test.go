package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default source is newsapi", func(t *testing.T) {
		t.Parallel()
		if cfg.Source != "newsapi" {
			t.Errorf("expected Source to be 'newsapi', got '%s'", cfg.Source)
		}
	})

	t.Run("default query is India politics", func(t *testing.T) {
		t.Parallel()
		if cfg.Query != "India politics" {
			t.Errorf("expected Query to be 'India politics', got '%s'", cfg.Query)
		}
	})

	t.Run("default MaxArticles is 12", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxArticles != 12 {
			t.Errorf("expected MaxArticles to be 12, got %d", cfg.MaxArticles)
		}
	})

	t.Run("default RequestTimeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.RequestTimeout != 10*time.Second {
			t.Errorf("expected RequestTimeout to be 10s, got %v", cfg.RequestTimeout)
		}
	})

	t.Run("default stage settings", func(t *testing.T) {
		t.Parallel()
		if cfg.Analyzer.Temperature != 0.3 || cfg.Analyzer.MaxTokens != 512 {
			t.Errorf("unexpected analyzer defaults %+v", cfg.Analyzer)
		}
		if cfg.Validator.Temperature != 0.2 || cfg.Validator.MaxTokens != 1024 {
			t.Errorf("unexpected validator defaults %+v", cfg.Validator)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"unknown source", func(c *Config) { c.Source = "twitter" }, ErrInvalidSource},
		{"newsapi without query", func(c *Config) { c.Query = "" }, ErrNoQuery},
		{"rss without feeds", func(c *Config) { c.Source = SourceRSS }, ErrNoFeeds},
		{"zero max articles", func(c *Config) { c.MaxArticles = 0 }, ErrInvalidMaxArticles},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, ErrInvalidTimeout},
		{"negative llm timeout", func(c *Config) { c.LLMTimeout = -time.Second }, ErrInvalidTimeout},
		{"negative min content length", func(c *Config) { c.MinContentLength = -1 }, ErrInvalidMinContentLength},
		{"unknown backend", func(c *Config) { c.Backend = "claude" }, ErrInvalidBackend},
		{"temperature too high", func(c *Config) { c.Analyzer.Temperature = 2.5 }, ErrInvalidTemperature},
		{"zero max tokens", func(c *Config) { c.Validator.MaxTokens = 0 }, ErrInvalidMaxTokens},
		{"cache without ttl", func(c *Config) { c.CacheEnabled = true; c.CacheTTL = 0 }, ErrInvalidCacheTTL},
		{"unknown format", func(c *Config) { c.Format = "html" }, ErrInvalidFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	t.Run("rss with feeds is valid without query", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Source = SourceRSS
		cfg.Query = ""
		cfg.Feeds = []string{"https://example.com/rss"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestEffectiveMinInterval tests backend-dependent pacing.
func TestEffectiveMinInterval(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		backend  string
		interval time.Duration
		expected time.Duration
	}{
		{"gemini auto", BackendGemini, MinIntervalAuto, 13 * time.Second},
		{"ollama auto", BackendOllama, MinIntervalAuto, 0},
		{"mock auto", BackendMock, MinIntervalAuto, 0},
		{"explicit zero on gemini", BackendGemini, 0, 0},
		{"explicit value", BackendOpenAI, 2 * time.Second, 2 * time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Backend = tc.backend
			cfg.MinInterval = tc.interval
			if got := cfg.EffectiveMinInterval(); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

// TestStageModels tests that empty models resolve to backend defaults.
func TestStageModels(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.AnalyzerStage().Model; got != "gemini-2.0-flash" {
		t.Errorf("expected gemini-2.0-flash, got %q", got)
	}
	if got := cfg.ValidatorStage().Model; got != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash, got %q", got)
	}

	cfg.Backend = BackendOllama
	cfg.Validator.Model = "qwen2.5"
	if got := cfg.AnalyzerStage().Model; got != "llama3.2" {
		t.Errorf("expected llama3.2, got %q", got)
	}
	if got := cfg.ValidatorStage().Model; got != "qwen2.5" {
		t.Errorf("expected explicit model to win, got %q", got)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.newsverdict")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads and applies valid YAML config", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".newsverdict")

		content := `news:
  source: rss
  max_articles: 5
  request_timeout: 30s
  feeds:
    - https://example.com/a.xml
    - https://example.com/b.xml
llm:
  backend: ollama
  min_interval: 0s
  analyzer:
    model: llama3.1
    temperature: 0.5
cache:
  enabled: true
  ttl: 1h
output:
  dir: reports
  format: markdown
  save_db: false
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg)

		if cfg.Source != SourceRSS || cfg.MaxArticles != 5 || cfg.RequestTimeout != 30*time.Second {
			t.Errorf("news section not applied: %+v", cfg)
		}
		if len(cfg.Feeds) != 2 {
			t.Errorf("expected 2 feeds, got %d", len(cfg.Feeds))
		}
		if cfg.Query != DefaultQuery {
			t.Errorf("expected unset query to keep default, got %q", cfg.Query)
		}
		if cfg.Backend != BackendOllama || cfg.MinInterval != 0 {
			t.Errorf("llm section not applied: backend=%s interval=%v", cfg.Backend, cfg.MinInterval)
		}
		if cfg.Analyzer.Model != "llama3.1" || cfg.Analyzer.Temperature != 0.5 || cfg.Analyzer.MaxTokens != 512 {
			t.Errorf("analyzer stage not merged: %+v", cfg.Analyzer)
		}
		if !cfg.CacheEnabled || cfg.CacheTTL != time.Hour {
			t.Errorf("cache section not applied")
		}
		if cfg.OutputDir != "reports" || cfg.Format != FormatMarkdown || cfg.SaveToDB {
			t.Errorf("output section not applied")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".newsverdict")

		content := `invalid: yaml: content: [}`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.yaml")

		if err := os.WriteFile(configPath, []byte("news: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)

		if err := os.WriteFile(DefaultConfigFile, []byte("news: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		result := FindConfigFile("")
		if !strings.HasSuffix(result, DefaultConfigFile) {
			t.Errorf("expected config in current directory, got %q", result)
		}
	})
}

// TestApplyEnvFrom tests environment overrides.
func TestApplyEnvFrom(t *testing.T) {
	t.Parallel()

	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := m[k]
			return v, ok
		}
	}

	t.Run("applies all variables", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := ApplyEnvFrom(cfg, env(map[string]string{
			EnvNewsAPIKey:     "news-key",
			EnvGeminiAPIKey:   "gemini-key",
			EnvOpenAIAPIKey:   "openai-key",
			EnvOpenAIBaseURL:  "http://localhost:8000/v1",
			EnvOllamaHost:     "http://ollama:11434",
			EnvRedisAddr:      "redis:6379",
			EnvNewsQuery:      "monsoon",
			EnvMaxArticles:    "3",
			EnvRequestTimeout: "15",
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.NewsAPIKey != "news-key" || cfg.GeminiAPIKey != "gemini-key" || cfg.OpenAIAPIKey != "openai-key" {
			t.Error("api keys not applied")
		}
		if cfg.OpenAIBaseURL != "http://localhost:8000/v1" || cfg.OllamaHost != "http://ollama:11434" {
			t.Error("endpoints not applied")
		}
		if !cfg.CacheEnabled || cfg.RedisAddr != "redis:6379" {
			t.Error("expected REDIS_ADDR to enable the cache")
		}
		if cfg.Query != "monsoon" || cfg.MaxArticles != 3 || cfg.RequestTimeout != 15*time.Second {
			t.Errorf("news settings not applied: %q %d %v", cfg.Query, cfg.MaxArticles, cfg.RequestTimeout)
		}
	})

	t.Run("accepts duration syntax", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := ApplyEnvFrom(cfg, env(map[string]string{EnvRequestTimeout: "1m"})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RequestTimeout != time.Minute {
			t.Errorf("expected 1m, got %v", cfg.RequestTimeout)
		}
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := ApplyEnvFrom(cfg, env(map[string]string{EnvNewsQuery: ""})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Query != DefaultQuery {
			t.Errorf("expected default query, got %q", cfg.Query)
		}
	})

	t.Run("invalid numbers return ErrInvalidEnv", func(t *testing.T) {
		t.Parallel()

		for _, key := range []string{EnvMaxArticles, EnvRequestTimeout} {
			cfg := NewConfig()
			err := ApplyEnvFrom(cfg, env(map[string]string{key: "lots"}))
			if !errors.Is(err, ErrInvalidEnv) {
				t.Errorf("%s: expected ErrInvalidEnv, got %v", key, err)
			}
		}
	})
}

// TestLoadDotEnv tests .env loading.
func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("loads variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("NEWSVERDICT_TEST_VAR=from-dotenv\n"), 0600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Setenv("NEWSVERDICT_TEST_VAR", "")
		if err := os.Unsetenv("NEWSVERDICT_TEST_VAR"); err != nil {
			t.Fatalf("unsetenv: %v", err)
		}

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("NEWSVERDICT_TEST_VAR"); got != "from-dotenv" {
			t.Errorf("expected from-dotenv, got %q", got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if XDGDataDir() == "" {
		t.Error("expected non-empty XDG data dir")
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %s, got %q", AppName, XDGConfigDir())
	}
}
