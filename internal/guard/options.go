package guard

import (
	"time"

	"github.com/okuznetsov/reqguard/internal/config"
	"github.com/okuznetsov/reqguard/internal/utils"
)

// Options holds the client configuration.
type Options struct {
	// Intercept controls whether dispatches are wrapped by the pipeline at all.
	Intercept bool
	// Logging controls whether dispatches are recorded in the request log.
	Logging bool
	// Mocking controls whether registered mock rules are consulted.
	Mocking bool
	// Caching controls whether idempotent responses are cached.
	Caching bool
	// Retry controls whether transient failures are retried.
	Retry bool
	// MaxLogEntries is the request log capacity.
	MaxLogEntries int
	// CacheDuration is the cache freshness window.
	CacheDuration time.Duration
	// CacheCapacity is the maximum number of cached responses.
	CacheCapacity int
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// RetryDelay is the backoff base delay.
	RetryDelay time.Duration
	// RetryOnNetworkError controls whether connectivity failures are retried.
	RetryOnNetworkError bool
	// RetryOnTimeout controls whether timed-out attempts are retried.
	RetryOnTimeout bool
	// Timeout is the per-attempt deadline; zero disables it.
	Timeout time.Duration
}

// Option is a functional option for configuring the client.
type Option func(*Options)

// defaultOptions returns the documented option defaults.
func defaultOptions() Options {
	return Options{
		Intercept:           true,
		Logging:             true,
		Mocking:             false,
		Caching:             false,
		Retry:               true,
		MaxLogEntries:       config.DefaultMaxLogEntries,
		CacheDuration:       5 * time.Minute,
		CacheCapacity:       config.DefaultCacheCapacity,
		MaxRetries:          config.DefaultMaxRetries,
		RetryDelay:          time.Second,
		RetryOnNetworkError: true,
		RetryOnTimeout:      true,
		Timeout:             10 * time.Second,
	}
}

// WithInterception toggles whether dispatches are wrapped by the pipeline.
func WithInterception(enabled bool) Option {
	return func(o *Options) {
		o.Intercept = enabled
	}
}

// WithLogging toggles request logging.
func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.Logging = enabled
	}
}

// WithMocking toggles mock rule matching.
func WithMocking(enabled bool) Option {
	return func(o *Options) {
		o.Mocking = enabled
	}
}

// WithCaching toggles response caching.
func WithCaching(enabled bool) Option {
	return func(o *Options) {
		o.Caching = enabled
	}
}

// WithRetry toggles retrying of transient failures.
func WithRetry(enabled bool) Option {
	return func(o *Options) {
		o.Retry = enabled
	}
}

// WithMaxLogEntries sets the request log capacity.
func WithMaxLogEntries(capacity int) Option {
	return func(o *Options) {
		o.MaxLogEntries = capacity
	}
}

// WithCacheDuration sets the cache freshness window.
func WithCacheDuration(duration time.Duration) Option {
	return func(o *Options) {
		o.CacheDuration = duration
	}
}

// WithCacheCapacity sets the maximum number of cached responses.
func WithCacheCapacity(capacity int) Option {
	return func(o *Options) {
		o.CacheCapacity = capacity
	}
}

// WithMaxRetries sets the number of additional attempts after the first one.
func WithMaxRetries(count int) Option {
	return func(o *Options) {
		o.MaxRetries = count
	}
}

// WithRetryDelay sets the backoff base delay.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.RetryDelay = delay
	}
}

// WithRetryOnNetworkError toggles retrying of connectivity failures.
func WithRetryOnNetworkError(enabled bool) Option {
	return func(o *Options) {
		o.RetryOnNetworkError = enabled
	}
}

// WithRetryOnTimeout toggles retrying of timed-out attempts.
func WithRetryOnTimeout(enabled bool) Option {
	return func(o *Options) {
		o.RetryOnTimeout = enabled
	}
}

// WithTimeout sets the per-attempt deadline. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// optionsFromConfig maps validated application configuration to client options.
func optionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithInterception(cfg.EnableIntercept),
		WithLogging(cfg.EnableLogging),
		WithMocking(cfg.EnableMocking),
		WithCaching(cfg.EnableCaching),
		WithRetry(cfg.EnableRetry),
		WithMaxLogEntries(utils.SafeInt64ToInt(cfg.MaxLogEntries)),
		WithCacheDuration(cfg.ParsedCacheDuration),
		WithCacheCapacity(utils.SafeInt64ToInt(cfg.CacheCapacity)),
		WithMaxRetries(utils.SafeInt64ToInt(cfg.MaxRetries)),
		WithRetryDelay(cfg.ParsedRetryDelay),
		WithRetryOnNetworkError(cfg.RetryOnNetworkError),
		WithRetryOnTimeout(cfg.RetryOnTimeout),
		WithTimeout(cfg.ParsedTimeout),
	}
}
