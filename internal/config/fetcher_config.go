package config

import "time"

// FetcherConfig defines how target content is retrieved
type FetcherConfig struct {
	TimeoutSecs        int               `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1,max=600"`
	UserAgent          string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	MaxContentSizeMB   int               `json:"max_content_size_mb,omitempty" yaml:"max_content_size_mb,omitempty" validate:"omitempty,min=1"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	FollowRedirects    bool              `json:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects       int               `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0"`
	Proxy              string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	EnableHTTP2        bool              `json:"enable_http2" yaml:"enable_http2"`
	CustomHeaders      map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
}

// NewDefaultFetcherConfig creates default fetcher configuration
func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		TimeoutSecs:        DefaultFetcherTimeoutSecs,
		UserAgent:          DefaultFetcherUserAgent,
		MaxContentSizeMB:   DefaultFetcherMaxContentSizeMB,
		InsecureSkipVerify: false,
		FollowRedirects:    true,
		MaxRedirects:       DefaultFetcherMaxRedirects,
		EnableHTTP2:        true,
		CustomHeaders:      map[string]string{},
	}
}

// Timeout returns the per-request timeout
func (c FetcherConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return DefaultFetcherTimeoutSecs * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// MaxContentSize returns the body size limit in bytes
func (c FetcherConfig) MaxContentSize() int64 {
	if c.MaxContentSizeMB <= 0 {
		return DefaultFetcherMaxContentSizeMB * 1024 * 1024
	}
	return int64(c.MaxContentSizeMB) * 1024 * 1024
}
