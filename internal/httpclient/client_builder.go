package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// Builder builds *http.Client values with a fluent interface
type Builder struct {
	config Config
	logger zerolog.Logger
}

// NewBuilder creates a new Builder with default configuration
func NewBuilder(logger zerolog.Logger) *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: logger.With().Str("component", "HTTPClient").Logger(),
	}
}

// WithConfig replaces the whole configuration
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithTimeout sets the request timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithInsecureSkipVerify sets whether to skip TLS verification
func (b *Builder) WithInsecureSkipVerify(skip bool) *Builder {
	b.config.InsecureSkipVerify = skip
	return b
}

// WithFollowRedirects sets whether to follow redirects
func (b *Builder) WithFollowRedirects(follow bool) *Builder {
	b.config.FollowRedirects = follow
	return b
}

// WithMaxRedirects sets the maximum number of redirects to follow
func (b *Builder) WithMaxRedirects(max int) *Builder {
	b.config.MaxRedirects = max
	return b
}

// WithUserAgent sets the User-Agent header
func (b *Builder) WithUserAgent(userAgent string) *Builder {
	b.config.UserAgent = userAgent
	return b
}

// WithProxy routes every request through the given proxy URL
func (b *Builder) WithProxy(proxy string) *Builder {
	b.config.Proxy = proxy
	return b
}

// WithHeader adds a header sent with every request
func (b *Builder) WithHeader(key, value string) *Builder {
	if b.config.CustomHeaders == nil {
		b.config.CustomHeaders = map[string]string{}
	}
	b.config.CustomHeaders[key] = value
	return b
}

// WithHTTP2 enables or disables HTTP/2 support
func (b *Builder) WithHTTP2(enabled bool) *Builder {
	b.config.EnableHTTP2 = enabled
	return b
}

// Build creates the client
func (b *Builder) Build() (*http.Client, error) {
	cfg := b.config

	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, common.NewValidationError("proxy", cfg.Proxy, "invalid proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		b.logger.Info().Str("proxy", cfg.Proxy).Msg("HTTP client configured with proxy")
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	client := &http.Client{
		Transport: &headerTransport{
			base:      transport,
			userAgent: cfg.UserAgent,
			headers:   cfg.CustomHeaders,
		},
		Timeout: cfg.Timeout,
	}

	switch {
	case !cfg.FollowRedirects:
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	case cfg.MaxRedirects > 0:
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	}

	b.logger.Debug().
		Dur("timeout", cfg.Timeout).
		Bool("insecure_skip_verify", cfg.InsecureSkipVerify).
		Bool("follow_redirects", cfg.FollowRedirects).
		Int("max_redirects", cfg.MaxRedirects).
		Bool("http2_enabled", cfg.EnableHTTP2).
		Msg("HTTP client created")

	return client, nil
}
