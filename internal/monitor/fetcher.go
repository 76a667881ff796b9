package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
)

// FetchResult is the body retrieved for one target
type FetchResult struct {
	URL         string
	Content     []byte
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// Fetcher retrieves target content over HTTP(S).
type Fetcher struct {
	httpClient     *http.Client
	logger         zerolog.Logger
	timeout        time.Duration
	maxContentSize int64
}

// NewFetcher creates a new Fetcher.
func NewFetcher(client *http.Client, cfg config.FetcherConfig, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		httpClient:     client,
		logger:         logger.With().Str("component", "Fetcher").Logger(),
		timeout:        cfg.Timeout(),
		maxContentSize: cfg.MaxContentSize(),
	}
}

// ValidateTargetURL accepts absolute http, https and ftp URLs with a host.
func ValidateTargetURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "ftp":
	default:
		return nil, fmt.Errorf("%w: scheme '%s' is not allowed", common.ErrInvalidInput, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", common.ErrInvalidInput)
	}
	return parsed, nil
}

// Fetch performs one bounded GET. Every failure is returned as *common.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	parsed, err := ValidateTargetURL(rawURL)
	if err != nil {
		return nil, common.NewFetchError(rawURL, "malformed URL", err)
	}
	if strings.EqualFold(parsed.Scheme, "ftp") {
		return nil, common.NewFetchError(rawURL, "unsupported scheme", common.ErrUnsupportedScheme)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, common.NewFetchError(rawURL, "malformed URL", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Debug().Err(err).Str("url", rawURL).Msg("HTTP request failed")
		return nil, common.NewFetchError(rawURL, classifyTransportError(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, common.NewHTTPFetchError(rawURL, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.ContentLength > f.maxContentSize {
		return nil, common.NewFetchError(rawURL, "content too large",
			fmt.Errorf("%w: %d bytes (max: %d bytes)", common.ErrInvalidInput, resp.ContentLength, f.maxContentSize))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxContentSize+1))
	if err != nil {
		return nil, common.NewFetchError(rawURL, classifyTransportError(err), err)
	}
	if int64(len(body)) > f.maxContentSize {
		return nil, common.NewFetchError(rawURL, "content too large",
			fmt.Errorf("%w: more than %d bytes", common.ErrInvalidInput, f.maxContentSize))
	}

	result := &FetchResult{
		URL:         rawURL,
		Content:     body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now().UTC(),
	}
	f.logger.Debug().Str("url", rawURL).Str("content_type", result.ContentType).Int("size", len(body)).Msg("File content fetched")
	return result, nil
}

func classifyTransportError(err error) string {
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.As(err, &dnsErr):
		return "DNS lookup failed"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	default:
		return "transport error"
	}
}
