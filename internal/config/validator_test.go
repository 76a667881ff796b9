package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *GlobalConfig)
		contains string
	}{
		{
			name:     "unknown log level",
			mutate:   func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			contains: "LogConfig.LogLevel': rule 'loglevel'",
		},
		{
			name:     "unknown provider",
			mutate:   func(cfg *GlobalConfig) { cfg.AIConfig.Provider = "llama" },
			contains: "AIConfig.Provider': rule 'aiprovider'",
		},
		{
			name:     "unknown storage backend",
			mutate:   func(cfg *GlobalConfig) { cfg.StorageConfig.Backend = "redis" },
			contains: "rule 'storagebackend'",
		},
		{
			name:     "fingerprint too short",
			mutate:   func(cfg *GlobalConfig) { cfg.StorageConfig.FingerprintLength = 4 },
			contains: "StorageConfig.FingerprintLength': rule 'min' (expected: 8)",
		},
		{
			name:     "temperature out of range",
			mutate:   func(cfg *GlobalConfig) { cfg.AIConfig.CodeAnalysis.Temperature = 3 },
			contains: "Temperature': rule 'max'",
		},
		{
			name:     "telegram without token",
			mutate:   func(cfg *GlobalConfig) { cfg.NotificationConfig.Telegram.Enabled = true },
			contains: "telegram.token' is empty",
		},
		{
			name: "discord with bad url",
			mutate: func(cfg *GlobalConfig) {
				cfg.NotificationConfig.Discord.Enabled = true
				cfg.NotificationConfig.Discord.WebhookURL = "not a url"
			},
			contains: "Discord.WebhookURL': rule 'url'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateConfig_CaseInsensitiveEnums(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.LogConfig.LogLevel = "DEBUG"
	cfg.AIConfig.Provider = "Anthropic"
	cfg.StorageConfig.CompressionCodec = "Snappy"

	assert.NoError(t, ValidateConfig(cfg))
}
