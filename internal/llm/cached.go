package llm

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/newsverdict/internal/cache"
)

// Cached serves repeated prompts from a cache. Cache failures are logged
// and never fail a call.
type Cached struct {
	next   Generator
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with c. Entries expire after ttl.
func NewCached(next Generator, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: c, ttl: ttl, logger: logger}
}

// Generate returns the cached answer for the same backend, params and prompt,
// or calls the wrapped generator and stores its answer.
func (c *Cached) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	key := CacheKey(c.next.Name(), prompt, params)

	if v, found, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", "cache_key", key, "error", err)
	} else if found {
		c.logger.Debug("cache hit", "cache_key", key, "purpose", params.Purpose)
		return v, nil
	}

	answer, err := c.next.Generate(ctx, prompt, params)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, answer, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "cache_key", key, "error", err)
	}
	return answer, nil
}

// Name returns the wrapped backend's name.
func (c *Cached) Name() string {
	return c.next.Name()
}

// Close closes the wrapped generator. The cache is owned by the caller.
func (c *Cached) Close() error {
	return c.next.Close()
}

// CacheKey derives the cache key of a generation call.
func CacheKey(backend, prompt string, params Params) string {
	h := sha3.New256()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%g\x00%d\x00", backend, params.Model, params.Purpose, params.Temperature, params.MaxTokens)
	h.Write([]byte(prompt))
	return "llm:" + hex.EncodeToString(h.Sum(nil))
}
