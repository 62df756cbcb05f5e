package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces calls to the wrapped generator by a minimum interval.
type RateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimited wraps next so that calls start at least interval apart.
// A non-positive interval returns next unchanged.
func NewRateLimited(next Generator, interval time.Duration) Generator {
	if interval <= 0 {
		return next
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Generate waits for the limiter, then calls the wrapped generator.
func (r *RateLimited) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Generate(ctx, prompt, params)
}

// Name returns the wrapped backend's name.
func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Close closes the wrapped generator.
func (r *RateLimited) Close() error {
	return r.next.Close()
}

// Timeout bounds every call to the wrapped generator.
type Timeout struct {
	next    Generator
	timeout time.Duration
}

// NewTimeout wraps next with a per-call deadline.
func NewTimeout(next Generator, timeout time.Duration) *Timeout {
	return &Timeout{next: next, timeout: timeout}
}

// Generate calls the wrapped generator under a deadline.
func (t *Timeout) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, prompt, params)
}

// Name returns the wrapped backend's name.
func (t *Timeout) Name() string {
	return t.next.Name()
}

// Close closes the wrapped generator.
func (t *Timeout) Close() error {
	return t.next.Close()
}
