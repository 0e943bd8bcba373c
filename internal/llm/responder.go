package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yojanadost/yojanadost/internal/cache"
)

// ErrNoProvider is returned when the responder has no provider configured
var ErrNoProvider = errors.New("no LLM provider configured")

// Responder answers free-text questions that structured retrieval could not.
// Successful answers are cached per normalized query; failures are never
// cached and never retried.
type Responder struct {
	provider Provider
	config   Config
	cache    cache.Cache
	cacheTTL time.Duration
	timeout  time.Duration
}

// ResponderOption configures a Responder
type ResponderOption func(*Responder)

// WithCache caches answers for ttl
func WithCache(c cache.Cache, ttl time.Duration) ResponderOption {
	return func(r *Responder) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithTimeout bounds each completion call
func WithTimeout(d time.Duration) ResponderOption {
	return func(r *Responder) {
		r.timeout = d
	}
}

// NewResponder creates a responder for the configured provider. It returns
// nil when no provider is configured.
func NewResponder(config Config, opts ...ResponderOption) (*Responder, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return NewResponderWithProvider(provider, config, opts...), nil
}

// NewResponderWithProvider wraps an existing provider
func NewResponderWithProvider(provider Provider, config Config, opts ...ResponderOption) *Responder {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := &Responder{
		provider: provider,
		config:   config,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Probe reports whether the provider answers within the responder timeout.
// It sends a real request, so call it once at startup, not per query.
func (r *Responder) Probe(ctx context.Context) bool {
	if r == nil || r.provider == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.provider.IsAvailable(ctx)
}

// ProviderName returns the name of the underlying provider
func (r *Responder) ProviderName() string {
	if r == nil || r.provider == nil {
		return ""
	}
	return r.provider.Name()
}

// Answer returns the provider's answer to query. The returned error carries
// the provider failure for logging; it must not be shown to end users.
func (r *Responder) Answer(ctx context.Context, query string) (string, error) {
	if r == nil || r.provider == nil {
		return "", ErrNoProvider
	}

	var key string
	if r.cache != nil {
		key = cache.CacheKey(query)
		if val, found := r.cache.Get(key); found {
			return string(val), nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.provider.Complete(ctx, CompleteRequest{
		System:    r.config.SystemPrompt,
		Prompt:    query,
		MaxTokens: r.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", r.provider.Name(), err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%s completion: empty answer", r.provider.Name())
	}

	if r.cache != nil {
		_ = r.cache.Set(key, []byte(text), r.cacheTTL)
	}

	return text, nil
}
