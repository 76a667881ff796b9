package common

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			require.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}

	assert.NoError(t, WrapError(nil, "nothing to wrap"))
}

func TestFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       *FetchError
		message   string
		temporary bool
	}{
		{
			name:      "not found is permanent",
			err:       NewHTTPFetchError("https://example.com/app.js", http.StatusNotFound, "404 Not Found"),
			message:   "fetch 'https://example.com/app.js' failed: HTTP 404: 404 Not Found",
			temporary: false,
		},
		{
			name:      "bad gateway is temporary",
			err:       NewHTTPFetchError("https://example.com/app.js", http.StatusBadGateway, "502 Bad Gateway"),
			message:   "fetch 'https://example.com/app.js' failed: HTTP 502: 502 Bad Gateway",
			temporary: true,
		},
		{
			name:      "too many requests is temporary",
			err:       NewHTTPFetchError("https://example.com/app.js", http.StatusTooManyRequests, "429 Too Many Requests"),
			message:   "fetch 'https://example.com/app.js' failed: HTTP 429: 429 Too Many Requests",
			temporary: true,
		},
		{
			name:      "transport error is temporary",
			err:       NewFetchError("https://example.com/app.js", "request failed", context.DeadlineExceeded),
			message:   "fetch 'https://example.com/app.js' failed: request failed: context deadline exceeded",
			temporary: true,
		},
		{
			name:      "malformed url is permanent",
			err:       NewFetchError("gopher://x", "invalid url", ErrInvalidInput),
			message:   "fetch 'gopher://x' failed: invalid url: invalid input",
			temporary: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.temporary, tt.err.Temporary())
			assert.Equal(t, tt.temporary, IsRetryable(WrapError(tt.err, "check target")))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	providerErr := &AIProviderError{Provider: "gemini", Err: errors.New("quota exceeded")}
	malformedErr := &MalformedAIResponseError{Operation: "summarize", Err: errors.New("missing concise_summary")}

	assert.True(t, IsRetryable(providerErr))
	assert.False(t, IsRetryable(malformedErr))
	assert.False(t, IsRetryable(&AIProviderError{Provider: "gemini", Err: malformedErr}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestIsAlreadyExists(t *testing.T) {
	err := WrapError(&AlreadyExistsError{Kind: "summary", Key: "abc123"}, "persist summary")
	assert.True(t, IsAlreadyExists(err))
	assert.Equal(t, "persist summary: summary 'abc123' already exists", err.Error())
	assert.False(t, IsAlreadyExists(NewStoreIOError("write", "abc123", errors.New("disk full"))))
}

func TestStoreIOError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStoreIOError("write", "abc/content.js", cause)
	assert.Equal(t, "store write 'abc/content.js': permission denied", err.Error())
	assert.ErrorIs(t, err, cause)

	noKey := NewStoreIOError("open", "", cause)
	assert.Equal(t, "store open: permission denied", noKey.Error())
}

func TestErrorCollector(t *testing.T) {
	var ec ErrorCollector
	assert.False(t, ec.HasErrors())
	assert.NoError(t, ec.Error())

	ec.Add(nil)
	ec.Add(errors.New("first"))
	assert.Equal(t, "first", ec.Error().Error())

	ec.AddWithContext(errors.New("second"), "slack")
	assert.True(t, ec.HasErrors())
	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, "multiple errors occurred: [first; slack: second]", ec.Error().Error())
}

func TestErrorCollector_SingleErrorUnchanged(t *testing.T) {
	var ec ErrorCollector
	ec.Add(nil)
	assert.False(t, ec.HasErrors())
	assert.NoError(t, ec.Error())

	first := errors.New("close kv")
	ec.Add(first)
	assert.Same(t, first, ec.Error())

	ec.AddWithContext(errors.New("locked"), "close audit log")
	require.Len(t, ec.Errors(), 2)
	assert.EqualError(t, ec.Error(), "multiple errors occurred: [close kv; close audit log: locked]")
}
