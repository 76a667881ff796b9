package httpclient

import (
	"time"

	"github.com/aleister1102/jsmon/internal/config"
)

// Config holds the transport settings used by Builder
type Config struct {
	Timeout               time.Duration
	UserAgent             string
	Proxy                 string
	InsecureSkipVerify    bool
	FollowRedirects       bool
	MaxRedirects          int
	EnableHTTP2           bool
	CustomHeaders         map[string]string
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration
	ExpectContinueTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Timeout:               30 * time.Second,
		UserAgent:             config.DefaultFetcherUserAgent,
		FollowRedirects:       true,
		MaxRedirects:          config.DefaultFetcherMaxRedirects,
		EnableHTTP2:           true,
		CustomHeaders:         map[string]string{},
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// FromFetcherConfig maps the fetcher section of the global config onto a Config
func FromFetcherConfig(fc config.FetcherConfig) Config {
	cfg := DefaultConfig()
	cfg.Timeout = fc.Timeout()
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	cfg.Proxy = fc.Proxy
	cfg.InsecureSkipVerify = fc.InsecureSkipVerify
	cfg.FollowRedirects = fc.FollowRedirects
	cfg.MaxRedirects = fc.MaxRedirects
	cfg.EnableHTTP2 = fc.EnableHTTP2
	for k, v := range fc.CustomHeaders {
		cfg.CustomHeaders[k] = v
	}
	return cfg
}
