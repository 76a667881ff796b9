package analyst

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProviderServer answers every request with body and records the last request body
func newProviderServer(t *testing.T, status int, body string, gotPath *string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func providerConfig(provider, baseURL string) config.AIConfig {
	cfg := config.NewDefaultAIConfig()
	cfg.Provider = provider
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	return cfg
}

func TestNewProvider_Validation(t *testing.T) {
	cfg := config.NewDefaultAIConfig()
	_, err := NewProvider(context.Background(), cfg, nil, zerolog.Nop())
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ai_config.api_key", verr.Field)

	cfg.APIKey = "k"
	cfg.Provider = "cohere"
	_, err = NewProvider(context.Background(), cfg, nil, zerolog.Nop())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ai_config.provider", verr.Field)
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var path string
	var body map[string]any
	srv := newProviderServer(t, http.StatusOK, `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"ok\":true}"}}]
	}`, &path, &body)

	p, err := NewProvider(context.Background(), providerConfig("openai", srv.URL), srv.Client(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	out, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "hello", Model: "gpt-4o-mini", MaxTokens: 100, Temperature: 0.5})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Len(t, body["messages"], 2)
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	var path string
	var body map[string]any
	srv := newProviderServer(t, http.StatusTooManyRequests, `{"error": {"message": "rate limited", "type": "rate_limit"}}`, &path, &body)

	p, err := NewProvider(context.Background(), providerConfig("openai", srv.URL), srv.Client(), zerolog.Nop())
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Prompt: "hello", Model: "gpt-4o-mini"})
	var providerErr *common.AIProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "openai", providerErr.Provider)
	assert.True(t, common.IsRetryable(err))
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var path string
	var body map[string]any
	srv := newProviderServer(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
		"content": [{"type": "text", "text": "{\"ok\":"}, {"type": "text", "text": "true}"}],
		"stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 1}
	}`, &path, &body)

	p, err := NewProvider(context.Background(), providerConfig("anthropic", srv.URL), srv.Client(), zerolog.Nop())
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "hello", Model: "claude-test", MaxTokens: 50, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "/v1/messages", path)
	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 50, body["max_tokens"])
}

func TestGeminiProvider_Generate(t *testing.T) {
	var path string
	var body map[string]any
	srv := newProviderServer(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"ok\":true}"}]}, "finishReason": "STOP"}]
	}`, &path, &body)

	p, err := NewProvider(context.Background(), providerConfig("gemini", srv.URL), srv.Client(), zerolog.Nop())
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "hello", Model: "gemini-1.5-flash", MaxTokens: 10, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.True(t, strings.HasSuffix(path, "/models/gemini-1.5-flash:generateContent"), path)
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	var path string
	var body map[string]any
	srv := newProviderServer(t, http.StatusOK, `{"candidates": []}`, &path, &body)

	p, err := NewProvider(context.Background(), providerConfig("gemini", srv.URL), srv.Client(), zerolog.Nop())
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Prompt: "hello", Model: "gemini-1.5-flash"})
	var providerErr *common.AIProviderError
	assert.ErrorAs(t, err, &providerErr)
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	assert.Equal(t, "https://gw.example.com/v1/", normalizeOpenAIBaseURL("https://gw.example.com"))
	assert.Equal(t, "https://gw.example.com/v1/", normalizeOpenAIBaseURL("https://gw.example.com/v1/"))
}
