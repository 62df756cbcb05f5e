package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// News sources.
const (
	SourceNewsAPI = "newsapi"
	SourceRSS     = "rss"
)

// Text-generation backends.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
	BackendMock   = "mock"
)

// Terminal output formats for the run summary.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "newsverdict"

	// DefaultSource fetches from NewsAPI, the only source the tool originally had.
	DefaultSource = SourceNewsAPI

	// DefaultQuery is the NewsAPI search query.
	DefaultQuery = "India politics"

	// DefaultMaxArticles is the NewsAPI page size and the RSS item limit.
	DefaultMaxArticles = 12

	// DefaultRequestTimeout bounds a single news fetch request.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultMinContentLength drops teaser-only NewsAPI items.
	DefaultMinContentLength = 50

	// DefaultNewsAPIURL is the NewsAPI "everything" endpoint.
	DefaultNewsAPIURL = "https://newsapi.org/v2/everything"

	// DefaultBackend is the text-generation backend.
	DefaultBackend = BackendGemini

	// DefaultLLMTimeout bounds a single generation call.
	DefaultLLMTimeout = 60 * time.Second

	// DefaultGeminiMinInterval keeps Gemini free-tier usage under 5 requests per minute.
	DefaultGeminiMinInterval = 13 * time.Second

	// DefaultOllamaHost is where a local Ollama server listens.
	DefaultOllamaHost = "http://127.0.0.1:11434"

	// DefaultAnalyzerTemperature and DefaultAnalyzerMaxTokens configure the analyzer call.
	DefaultAnalyzerTemperature float32 = 0.3
	DefaultAnalyzerMaxTokens   int32   = 512

	// DefaultValidatorTemperature and DefaultValidatorMaxTokens configure the validator call.
	DefaultValidatorTemperature float32 = 0.2
	DefaultValidatorMaxTokens   int32   = 1024

	// DefaultCacheTTL is how long a cached model response stays valid.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultOutputDir receives raw_articles.json, analysis_results.json and final_report.md.
	DefaultOutputDir = "output"

	// DefaultFormat is the terminal summary format.
	DefaultFormat = FormatText

	// DefaultServeAddr is the listen address of the history API.
	DefaultServeAddr = "127.0.0.1:8085"

	// MinIntervalAuto selects the backend's own pacing, see Config.EffectiveMinInterval.
	MinIntervalAuto time.Duration = -1
)

// Config holds all configuration options for newsverdict.
// It is populated from defaults, the configuration file, the environment and
// CLI flags, in increasing order of precedence, and passed down explicitly.
type Config struct {
	// Source selects where articles come from: "newsapi" or "rss".
	Source string

	// Query is the NewsAPI search query. Unused for RSS.
	Query string

	// MaxArticles limits how many articles are fetched.
	MaxArticles int

	// Feeds lists RSS/Atom feed URLs, fetched in this order.
	Feeds []string

	// RequestTimeout bounds each news fetch HTTP request.
	RequestTimeout time.Duration

	// MinContentLength drops NewsAPI articles whose content is shorter.
	MinContentLength int

	// NewsAPIURL is the NewsAPI endpoint. Overridable for tests.
	NewsAPIURL string

	// NewsAPIKey authenticates NewsAPI requests. Read from NEWSAPI_API_KEY.
	NewsAPIKey string

	// Backend selects the text-generation service.
	Backend string

	// Analyzer and Validator configure the two generation stages.
	// An empty Model means the backend's default model for that stage.
	Analyzer  StageConfig
	Validator StageConfig

	// MinInterval is the minimum time between two generation calls.
	// MinIntervalAuto (any negative value) uses the backend default.
	MinInterval time.Duration

	// LLMTimeout bounds each generation call.
	LLMTimeout time.Duration

	// GeminiAPIKey, OpenAIAPIKey and OpenAIBaseURL are read from the environment.
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// OllamaHost is the base URL of the Ollama server.
	OllamaHost string

	// CacheEnabled turns on response caching. With RedisAddr empty an
	// in-memory cache is used, which only helps within a single process.
	CacheEnabled bool
	RedisAddr    string
	CacheTTL     time.Duration

	// OutputDir receives the report files. Empty disables file output.
	OutputDir string

	// Format is the terminal summary format: "text", "json" or "markdown".
	Format string

	// DBDir is the directory of the run history database.
	// Defaults to the XDG data directory (~/.local/share/newsverdict on Linux).
	DBDir string

	// SaveToDB stores each run in the history database.
	SaveToDB bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit configuration file. When empty the tool
	// searches the current directory and then the home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Source:           DefaultSource,
		Query:            DefaultQuery,
		MaxArticles:      DefaultMaxArticles,
		RequestTimeout:   DefaultRequestTimeout,
		MinContentLength: DefaultMinContentLength,
		NewsAPIURL:       DefaultNewsAPIURL,
		Backend:          DefaultBackend,
		Analyzer:         DefaultAnalyzerStage(),
		Validator:        DefaultValidatorStage(),
		MinInterval:      MinIntervalAuto,
		LLMTimeout:       DefaultLLMTimeout,
		OllamaHost:       DefaultOllamaHost,
		CacheTTL:         DefaultCacheTTL,
		OutputDir:        DefaultOutputDir,
		Format:           DefaultFormat,
		DBDir:            XDGDataDir(),
		SaveToDB:         true,
	}
}

// EffectiveMinInterval returns the pacing to apply between generation calls.
func (c *Config) EffectiveMinInterval() time.Duration {
	if c.MinInterval >= 0 {
		return c.MinInterval
	}
	if c.Backend == BackendGemini {
		return DefaultGeminiMinInterval
	}
	return 0
}

// AnalyzerStage returns the analyzer settings with the model resolved.
func (c *Config) AnalyzerStage() StageConfig {
	s := c.Analyzer
	if s.Model == "" {
		s.Model, _ = DefaultModels(c.Backend)
	}
	return s
}

// ValidatorStage returns the validator settings with the model resolved.
func (c *Config) ValidatorStage() StageConfig {
	s := c.Validator
	if s.Model == "" {
		_, s.Model = DefaultModels(c.Backend)
	}
	return s
}

// DefaultModels returns the analyzer and validator models used when none is configured.
func DefaultModels(backend string) (analyzer, validator string) {
	switch backend {
	case BackendGemini:
		return "gemini-2.0-flash", "gemini-2.5-flash"
	case BackendOpenAI:
		return "gpt-4o-mini", "gpt-4o-mini"
	case BackendOllama:
		return "llama3.2", "llama3.2"
	default:
		return "mock-analyzer", "mock-validator"
	}
}

// XDGDataDir returns the XDG data directory for newsverdict.
// On Linux: ~/.local/share/newsverdict
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for newsverdict.
// On Linux: ~/.config/newsverdict
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if !slices.Contains([]string{SourceNewsAPI, SourceRSS}, c.Source) {
		return ErrInvalidSource
	}

	if c.Source == SourceNewsAPI && c.Query == "" {
		return ErrNoQuery
	}

	if c.Source == SourceRSS && len(c.Feeds) == 0 {
		return ErrNoFeeds
	}

	if c.MaxArticles <= 0 {
		return ErrInvalidMaxArticles
	}

	if c.RequestTimeout <= 0 || c.LLMTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MinContentLength < 0 {
		return ErrInvalidMinContentLength
	}

	if !slices.Contains([]string{BackendGemini, BackendOpenAI, BackendOllama, BackendMock}, c.Backend) {
		return ErrInvalidBackend
	}

	if err := c.Analyzer.validate(); err != nil {
		return err
	}
	if err := c.Validator.validate(); err != nil {
		return err
	}

	if c.CacheEnabled && c.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}

	if !slices.Contains([]string{FormatText, FormatJSON, FormatMarkdown}, c.Format) {
		return ErrInvalidFormat
	}

	return nil
}
