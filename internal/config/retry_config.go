package config

import (
	"time"

	"github.com/aleister1102/jsmon/internal/common"
)

// RetryConfig defines the bounded retry policy applied around fetches and AI calls.
// Disabled by default.
type RetryConfig struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	MaxRetries   int  `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	BaseDelayMs  int  `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty" validate:"omitempty,min=1,max=60000"`
	MaxDelayMs   int  `json:"max_delay_ms,omitempty" yaml:"max_delay_ms,omitempty" validate:"omitempty,min=1,max=600000"`
	EnableJitter bool `json:"enable_jitter" yaml:"enable_jitter"`
}

// NewDefaultRetryConfig creates default retry configuration
func NewDefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Enabled:      false,
		MaxRetries:   DefaultRetryMaxRetries,
		BaseDelayMs:  DefaultRetryBaseDelayMs,
		MaxDelayMs:   DefaultRetryMaxDelayMs,
		EnableJitter: true,
	}
}

// BaseDelay returns the first backoff delay
func (c RetryConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMs) * time.Millisecond
}

// MaxDelay returns the backoff cap
func (c RetryConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelayMs) * time.Millisecond
}

// EffectiveMaxRetries is zero when retrying is disabled
func (c RetryConfig) EffectiveMaxRetries() int {
	if !c.Enabled {
		return 0
	}
	return c.MaxRetries
}

// Policy converts the section into a common.RetryPolicy
func (c RetryConfig) Policy() common.RetryPolicy {
	return common.RetryPolicy{
		MaxRetries:   c.EffectiveMaxRetries(),
		BaseDelay:    c.BaseDelay(),
		MaxDelay:     c.MaxDelay(),
		EnableJitter: c.EnableJitter,
	}
}
