package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/okuznetsov/reqguard/internal/logger"
	"github.com/okuznetsov/reqguard/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// EnableIntercept controls whether dispatches are wrapped by the resilience pipeline at all.
	// When false, requests are forwarded directly to the raw transport.
	EnableIntercept bool `mapstructure:"enable_intercept"`
	// EnableLogging controls whether dispatches are recorded in the request log.
	EnableLogging bool `mapstructure:"enable_logging"`
	// EnableMocking controls whether registered mock rules are consulted during dispatch.
	EnableMocking bool `mapstructure:"enable_mocking"`
	// MaxLogEntries is the capacity of the request log ring buffer.
	MaxLogEntries int64 `mapstructure:"max_log_entries"`
	// EnableCaching controls whether responses to idempotent requests are cached.
	EnableCaching bool `mapstructure:"enable_caching"`
	// CacheDuration is how long a cached response stays fresh (e.g., "5m", "30s").
	CacheDuration string `mapstructure:"cache_duration"`
	// CacheCapacity is the maximum number of responses kept in the cache.
	CacheCapacity int64 `mapstructure:"cache_capacity"`
	// EnableRetry controls whether transient failures are retried.
	EnableRetry bool `mapstructure:"enable_retry"`
	// MaxRetries is the number of additional attempts after the first failed one.
	MaxRetries int64 `mapstructure:"max_retries"`
	// RetryDelay is the base delay for exponential backoff (e.g., "1s").
	RetryDelay string `mapstructure:"retry_delay"`
	// RetryOnNetworkError controls whether connectivity failures are retried.
	RetryOnNetworkError bool `mapstructure:"retry_on_network_error"`
	// RetryOnTimeout controls whether timed-out attempts are retried.
	RetryOnTimeout bool `mapstructure:"retry_on_timeout"`
	// Timeout is the per-attempt deadline (e.g., "10s"). Empty or "0" disables it.
	Timeout string `mapstructure:"timeout"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxLogBodySize is the maximum size of dumped request/response data
	// in wire-level debug logs (e.g., "1MB", "64KB").
	MaxLogBodySize string `mapstructure:"max_log_body_size"`
	// UserAgent is the User-Agent header injected into requests that lack one.
	UserAgent string `mapstructure:"user_agent"`
	// Headers are extra headers applied to every request via an interceptor.
	Headers map[string]string `mapstructure:"headers"`
	// ParsedCacheDuration is the parsed cache freshness window.
	ParsedCacheDuration time.Duration
	// ParsedRetryDelay is the parsed backoff base delay.
	ParsedRetryDelay time.Duration
	// ParsedTimeout is the parsed per-attempt deadline.
	ParsedTimeout time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxLogBodySize is the parsed dump size limit in bytes.
	ParsedMaxLogBodySize int64
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".reqguard.yaml"

	// DefaultMaxLogEntries is the default capacity of the request log.
	DefaultMaxLogEntries = 100

	// DefaultCacheDuration is the default cache freshness window.
	DefaultCacheDuration = "5m"

	// DefaultCacheCapacity is the default maximum number of cached responses.
	DefaultCacheCapacity = 1024

	// DefaultMaxRetries is the default number of additional attempts after the first one.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default base delay for exponential backoff.
	DefaultRetryDelay = "1s"

	// DefaultTimeout is the default per-attempt deadline.
	DefaultTimeout = "10s"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultMaxLogLength is the default maximum size (in bytes) of dumped
	// request/response data in wire-level debug logs.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB
)

// Static error definitions for better error handling.
var (
	// ErrInvalidMaxLogEntries indicates that the request log capacity is invalid.
	ErrInvalidMaxLogEntries = errors.New("max_log_entries must be a positive integer")
	// ErrInvalidCacheDuration indicates that the cache duration setting is invalid.
	ErrInvalidCacheDuration = errors.New("cache_duration must be positive")
	// ErrInvalidCacheCapacity indicates that the cache capacity setting is invalid.
	ErrInvalidCacheCapacity = errors.New("cache_capacity must be a positive integer")
	// ErrInvalidMaxRetries indicates that the retry attempts count is invalid.
	ErrInvalidMaxRetries = errors.New("max_retries cannot be negative")
	// ErrInvalidRetryDelay indicates that the retry delay duration is invalid.
	ErrInvalidRetryDelay = errors.New("retry_delay must be positive")
	// ErrInvalidTimeout indicates that the per-attempt timeout is invalid.
	ErrInvalidTimeout = errors.New("timeout cannot be negative")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// LoadConfig loads configuration settings from a YAML file.
// A missing default config file is not an error: built-in defaults are used instead.
// An explicitly requested file must exist.
func LoadConfig(configFilename string) (*Config, error) {
	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if isExplicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the documented option defaults with viper.
func setDefaults() {
	viper.SetDefault("enable_intercept", true)
	viper.SetDefault("enable_logging", true)
	viper.SetDefault("enable_mocking", false)
	viper.SetDefault("max_log_entries", DefaultMaxLogEntries)
	viper.SetDefault("enable_caching", false)
	viper.SetDefault("cache_duration", DefaultCacheDuration)
	viper.SetDefault("cache_capacity", DefaultCacheCapacity)
	viper.SetDefault("enable_retry", true)
	viper.SetDefault("max_retries", DefaultMaxRetries)
	viper.SetDefault("retry_delay", DefaultRetryDelay)
	viper.SetDefault("retry_on_network_error", true)
	viper.SetDefault("retry_on_timeout", true)
	viper.SetDefault("timeout", DefaultTimeout)
	viper.SetDefault("log_level", DefaultLogLevel)
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	if cfg.MaxLogEntries <= 0 {
		return ErrInvalidMaxLogEntries
	}

	cfg.ParsedCacheDuration, err = time.ParseDuration(cfg.CacheDuration)
	if err != nil {
		return fmt.Errorf("failed to parse cache duration: %w", err)
	}

	if cfg.ParsedCacheDuration <= 0 {
		return ErrInvalidCacheDuration
	}

	if cfg.CacheCapacity <= 0 {
		return ErrInvalidCacheCapacity
	}

	if cfg.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	cfg.ParsedRetryDelay, err = time.ParseDuration(cfg.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to parse retry delay: %w", err)
	}

	if cfg.ParsedRetryDelay <= 0 {
		return ErrInvalidRetryDelay
	}

	// An empty or zero timeout disables the per-attempt deadline.
	timeout := strings.TrimSpace(cfg.Timeout)
	if timeout != "" && timeout != "0" {
		cfg.ParsedTimeout, err = time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("failed to parse timeout: %w", err)
		}

		if cfg.ParsedTimeout < 0 {
			return ErrInvalidTimeout
		}
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	maxLogBodySize := strings.TrimSpace(cfg.MaxLogBodySize)
	if maxLogBodySize != "" && maxLogBodySize != "0" {
		parsedMaxLogBodySize, parseErr := humanize.ParseBytes(maxLogBodySize)
		if parseErr != nil {
			return fmt.Errorf("failed to parse max log body size: %w", parseErr)
		}

		cfg.ParsedMaxLogBodySize = utils.SafeUint64ToInt64(parsedMaxLogBodySize)
	}

	if cfg.ParsedMaxLogBodySize <= 0 {
		cfg.ParsedMaxLogBodySize = DefaultMaxLogLength
	}

	return nil
}
