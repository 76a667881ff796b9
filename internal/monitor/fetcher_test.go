package monitor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, cfg config.FetcherConfig) *Fetcher {
	t.Helper()
	return NewFetcher(&http.Client{}, cfg, zerolog.Nop())
}

func TestFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = io.WriteString(w, "var a=1;")
	}))
	defer srv.Close()

	res, err := newTestFetcher(t, config.NewDefaultFetcherConfig()).Fetch(context.Background(), srv.URL+"/app.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("var a=1;"), res.Content)
	assert.Equal(t, "application/javascript", res.ContentType)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, res.FetchedAt.IsZero())
}

func TestFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.js":
			http.NotFound(w, r)
		case "/busy.js":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/huge.js":
			_, _ = io.WriteString(w, strings.Repeat("a", 2*1024*1024))
		case "/slow.js":
			time.Sleep(1500 * time.Millisecond)
		}
	}))
	defer srv.Close()

	cfg := config.NewDefaultFetcherConfig()
	cfg.MaxContentSizeMB = 1
	cfg.TimeoutSecs = 1
	fetcher := newTestFetcher(t, cfg)

	tests := []struct {
		name      string
		url       string
		status    int
		reason    string
		retryable bool
		sentinel  error
	}{
		{name: "not found", url: srv.URL + "/missing.js", status: 404, reason: "Not Found"},
		{name: "server error", url: srv.URL + "/busy.js", status: 503, reason: "Service Unavailable", retryable: true},
		{name: "too large", url: srv.URL + "/huge.js", reason: "content too large", sentinel: common.ErrInvalidInput},
		{name: "timeout", url: srv.URL + "/slow.js", reason: "request timed out", retryable: true},
		{name: "malformed", url: "not a url", reason: "malformed URL", sentinel: common.ErrInvalidInput},
		{name: "ftp", url: "ftp://example.com/app.js", reason: "unsupported scheme", sentinel: common.ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetcher.Fetch(context.Background(), tt.url)
			var fetchErr *common.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.url, fetchErr.URL)
			assert.Equal(t, tt.status, fetchErr.StatusCode)
			assert.Equal(t, tt.reason, fetchErr.Reason)
			assert.Equal(t, tt.retryable, common.IsRetryable(err))
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestValidateTargetURL(t *testing.T) {
	for _, raw := range []string{"https://example.com/a.js", "http://localhost:8080/a.js", "ftp://example.com/a.js"} {
		_, err := ValidateTargetURL(raw)
		assert.NoError(t, err, raw)
	}
	for _, raw := range []string{"", "example.com/a.js", "https://", "file:///etc/passwd", "javascript:alert(1)"} {
		_, err := ValidateTargetURL(raw)
		assert.Error(t, err, raw)
	}
}
