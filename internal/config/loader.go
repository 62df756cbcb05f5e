package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".newsverdict"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .newsverdict configuration file.
// Secrets are not read from the file; they come from the environment.
type File struct {
	News   NewsSection   `yaml:"news,omitempty"`
	LLM    LLMSection    `yaml:"llm,omitempty"`
	Cache  CacheSection  `yaml:"cache,omitempty"`
	Output OutputSection `yaml:"output,omitempty"`
}

// NewsSection configures article fetching.
type NewsSection struct {
	Source           string        `yaml:"source,omitempty"`
	Query            string        `yaml:"query,omitempty"`
	MaxArticles      int           `yaml:"max_articles,omitempty"`
	Feeds            []string      `yaml:"feeds,omitempty"`
	RequestTimeout   time.Duration `yaml:"request_timeout,omitempty"`
	MinContentLength int           `yaml:"min_content_length,omitempty"`
	NewsAPIURL       string        `yaml:"newsapi_url,omitempty"`
}

// LLMSection configures the text-generation backend and its two stages.
type LLMSection struct {
	Backend       string         `yaml:"backend,omitempty"`
	MinInterval   *time.Duration `yaml:"min_interval,omitempty"`
	Timeout       time.Duration  `yaml:"timeout,omitempty"`
	OpenAIBaseURL string         `yaml:"openai_base_url,omitempty"`
	OllamaHost    string         `yaml:"ollama_host,omitempty"`
	Analyzer      StageConfig    `yaml:"analyzer,omitempty"`
	Validator     StageConfig    `yaml:"validator,omitempty"`
}

// CacheSection configures model response caching.
type CacheSection struct {
	Enabled   bool          `yaml:"enabled,omitempty"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
}

// OutputSection configures report output and run history.
type OutputSection struct {
	Dir    string `yaml:"dir,omitempty"`
	Format string `yaml:"format,omitempty"`
	DBDir  string `yaml:"db_dir,omitempty"`
	SaveDB *bool  `yaml:"save_db,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every value set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	n := cf.News
	if n.Source != "" {
		cfg.Source = n.Source
	}
	if n.Query != "" {
		cfg.Query = n.Query
	}
	if n.MaxArticles != 0 {
		cfg.MaxArticles = n.MaxArticles
	}
	if len(n.Feeds) > 0 {
		cfg.Feeds = append([]string(nil), n.Feeds...)
	}
	if n.RequestTimeout != 0 {
		cfg.RequestTimeout = n.RequestTimeout
	}
	if n.MinContentLength != 0 {
		cfg.MinContentLength = n.MinContentLength
	}
	if n.NewsAPIURL != "" {
		cfg.NewsAPIURL = n.NewsAPIURL
	}

	l := cf.LLM
	if l.Backend != "" {
		cfg.Backend = l.Backend
	}
	if l.MinInterval != nil {
		cfg.MinInterval = *l.MinInterval
	}
	if l.Timeout != 0 {
		cfg.LLMTimeout = l.Timeout
	}
	if l.OpenAIBaseURL != "" {
		cfg.OpenAIBaseURL = l.OpenAIBaseURL
	}
	if l.OllamaHost != "" {
		cfg.OllamaHost = l.OllamaHost
	}
	cfg.Analyzer = cfg.Analyzer.merge(l.Analyzer)
	cfg.Validator = cfg.Validator.merge(l.Validator)

	c := cf.Cache
	if c.Enabled {
		cfg.CacheEnabled = true
	}
	if c.RedisAddr != "" {
		cfg.RedisAddr = c.RedisAddr
	}
	if c.TTL != 0 {
		cfg.CacheTTL = c.TTL
	}

	o := cf.Output
	if o.Dir != "" {
		cfg.OutputDir = o.Dir
	}
	if o.Format != "" {
		cfg.Format = o.Format
	}
	if o.DBDir != "" {
		cfg.DBDir = o.DBDir
	}
	if o.SaveDB != nil {
		cfg.SaveToDB = *o.SaveDB
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .newsverdict in the current directory
// 3. Look for .newsverdict in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), XDGConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
