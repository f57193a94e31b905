package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	return &Config{
		EnableIntercept:     true,
		EnableLogging:       true,
		EnableMocking:       false,
		MaxLogEntries:       100,
		EnableCaching:       true,
		CacheDuration:       "5m",
		CacheCapacity:       1024,
		EnableRetry:         true,
		MaxRetries:          3,
		RetryDelay:          "1s",
		RetryOnNetworkError: true,
		RetryOnTimeout:      true,
		Timeout:             "10s",
		LogLevel:            "info",
		MaxLogBodySize:      "1MB",
	}
}

// TestConfigStruct tests the Config struct fields.
func TestConfigStruct(t *testing.T) {
	t.Parallel()

	cfg := validConfig()

	assert.True(t, cfg.EnableIntercept)
	assert.True(t, cfg.EnableLogging)
	assert.False(t, cfg.EnableMocking)
	assert.Equal(t, int64(100), cfg.MaxLogEntries)
	assert.True(t, cfg.EnableCaching)
	assert.Equal(t, "5m", cfg.CacheDuration)
	assert.Equal(t, int64(1024), cfg.CacheCapacity)
	assert.True(t, cfg.EnableRetry)
	assert.Equal(t, int64(3), cfg.MaxRetries)
	assert.Equal(t, "1s", cfg.RetryDelay)
	assert.True(t, cfg.RetryOnNetworkError)
	assert.True(t, cfg.RetryOnTimeout)
	assert.Equal(t, "10s", cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "1MB", cfg.MaxLogBodySize)
}

// TestConstants tests the constants.
func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1024*1024, DefaultMaxLogLength)
	assert.Equal(t, 100, DefaultMaxLogEntries)
	assert.Equal(t, 1024, DefaultCacheCapacity)
	assert.Equal(t, 3, DefaultMaxRetries)
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:paralleltest // Viper keeps global state, so file-loading tests cannot run in parallel.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config file",
			content: `enable_caching: true
cache_duration: "1m"
max_retries: 5
log_level: "debug"
`,
			expectError: false,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()

				assert.True(t, cfg.EnableCaching)
				assert.Equal(t, "1m", cfg.CacheDuration)
				assert.Equal(t, int64(5), cfg.MaxRetries)
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name:        "empty file falls back to defaults",
			content:     "",
			expectError: false,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()

				assert.True(t, cfg.EnableIntercept)
				assert.True(t, cfg.EnableLogging)
				assert.False(t, cfg.EnableMocking)
				assert.False(t, cfg.EnableCaching)
				assert.True(t, cfg.EnableRetry)
				assert.Equal(t, int64(DefaultMaxLogEntries), cfg.MaxLogEntries)
				assert.Equal(t, DefaultCacheDuration, cfg.CacheDuration)
				assert.Equal(t, int64(DefaultMaxRetries), cfg.MaxRetries)
				assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
				assert.Equal(t, DefaultTimeout, cfg.Timeout)
			},
		},
		{
			name:        "malformed yaml",
			content:     "enable_caching: [unclosed",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.content), 0o644))

			cfg, err := LoadConfig(configFile)
			if tt.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestLoadConfig_MissingExplicitFile tests that an explicitly requested file must exist.
//
//nolint:paralleltest // Viper keeps global state, so file-loading tests cannot run in parallel.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.Error(t, err)
	assert.Nil(t, cfg)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		modify      func(cfg *Config)
		expectedErr error
	}{
		{
			name:        "valid config",
			modify:      func(_ *Config) {},
			expectedErr: nil,
		},
		{
			name: "zero max log entries",
			modify: func(cfg *Config) {
				cfg.MaxLogEntries = 0
			},
			expectedErr: ErrInvalidMaxLogEntries,
		},
		{
			name: "negative cache duration",
			modify: func(cfg *Config) {
				cfg.CacheDuration = "-5m"
			},
			expectedErr: ErrInvalidCacheDuration,
		},
		{
			name: "zero cache capacity",
			modify: func(cfg *Config) {
				cfg.CacheCapacity = 0
			},
			expectedErr: ErrInvalidCacheCapacity,
		},
		{
			name: "negative max retries",
			modify: func(cfg *Config) {
				cfg.MaxRetries = -1
			},
			expectedErr: ErrInvalidMaxRetries,
		},
		{
			name: "zero retry delay",
			modify: func(cfg *Config) {
				cfg.RetryDelay = "0s"
			},
			expectedErr: ErrInvalidRetryDelay,
		},
		{
			name: "negative timeout",
			modify: func(cfg *Config) {
				cfg.Timeout = "-10s"
			},
			expectedErr: ErrInvalidTimeout,
		},
		{
			name: "unknown log level",
			modify: func(cfg *Config) {
				cfg.LogLevel = "chatty"
			},
			expectedErr: ErrUnknownLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

// TestValidateConfig_DerivedFields tests that validation fills in parsed fields.
func TestValidateConfig_DerivedFields(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CacheDuration = "90s"
	cfg.RetryDelay = "250ms"
	cfg.Timeout = "3s"
	cfg.LogLevel = "warn"
	cfg.MaxLogBodySize = "64KB"

	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, 90*time.Second, cfg.ParsedCacheDuration)
	assert.Equal(t, 250*time.Millisecond, cfg.ParsedRetryDelay)
	assert.Equal(t, 3*time.Second, cfg.ParsedTimeout)
	assert.Equal(t, zapcore.WarnLevel, cfg.ParsedLogLevel)
	assert.Equal(t, int64(64000), cfg.ParsedMaxLogBodySize)
}

// TestValidateConfig_EmptyTimeout tests that an empty timeout disables the deadline.
func TestValidateConfig_EmptyTimeout(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Timeout = ""

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, time.Duration(0), cfg.ParsedTimeout)
}

// TestValidateConfig_DefaultMaxLogBodySize tests the dump size fallback.
func TestValidateConfig_DefaultMaxLogBodySize(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MaxLogBodySize = ""

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, int64(DefaultMaxLogLength), cfg.ParsedMaxLogBodySize)
}

// TestValidateConfig_InvalidMaxLogBodySize tests rejection of a malformed size.
func TestValidateConfig_InvalidMaxLogBodySize(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MaxLogBodySize = "lots"

	require.Error(t, ValidateConfig(cfg))
}
