// Package llm provides text-generation backends behind a single Generator interface.
//
// Backends: Gemini (google/generative-ai-go), OpenAI and compatible servers
// (sashabaranov/go-openai), a local Ollama server, and a mock with canned answers.
// Generators compose: NewRateLimited paces calls and NewCached serves repeated
// prompts from a cache.Cache.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Backend names accepted by New.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
	BackendMock   = "mock"
)

// Purpose tells a generator which stage a prompt belongs to.
type Purpose string

const (
	// PurposeAnalyze is the gist/sentiment/tone extraction stage.
	PurposeAnalyze Purpose = "analyze"
	// PurposeValidate is the verification stage.
	PurposeValidate Purpose = "validate"
)

// Params are the per-call generation settings.
type Params struct {
	Purpose     Purpose
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Generator produces text for a prompt.
type Generator interface {
	// Generate returns the model's answer. An empty answer is ErrEmptyResponse.
	Generate(ctx context.Context, prompt string, params Params) (string, error)

	// Name returns the backend name.
	Name() string

	// Close releases the backend's resources.
	Close() error
}

var (
	// ErrEmptyResponse is returned when a backend answers with no text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrMissingAPIKey is returned when a hosted backend has no API key.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Options configures New.
type Options struct {
	Backend       string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaHost    string

	// Timeout bounds each Generate call. Zero means no extra bound.
	Timeout time.Duration

	Logger *slog.Logger
}

// New creates the generator for opts.Backend.
func New(ctx context.Context, opts Options) (Generator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		g   Generator
		err error
	)
	switch opts.Backend {
	case BackendGemini:
		g, err = NewGemini(ctx, opts.GeminiAPIKey)
	case BackendOpenAI:
		g, err = NewOpenAI(opts.OpenAIAPIKey, opts.OpenAIBaseURL)
	case BackendOllama:
		g, err = NewOllama(opts.OllamaHost)
	case BackendMock:
		g = NewMock()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", opts.Backend, err)
	}

	logger.Debug("text generation backend ready", "backend", g.Name())
	if opts.Timeout > 0 {
		g = NewTimeout(g, opts.Timeout)
	}
	return g, nil
}
