package analyst

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
)

// Operation names used for prompts, logs and metrics
const (
	OperationSummarize     = "summarize"
	OperationAnalyzeChange = "analyze_change"
)

// Request is one generation call against a model provider
type Request struct {
	Operation   string
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON-only answer when it supports it
	JSON bool
}

// Provider is a language model backend
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the provider selected by cfg.Provider
func NewProvider(ctx context.Context, cfg config.AIConfig, httpClient *http.Client, logger zerolog.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = config.DefaultAIProvider
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, common.NewValidationError("ai_config.api_key", "", "API key is required for provider "+name)
	}

	switch name {
	case "gemini":
		return NewGeminiProvider(ctx, cfg, httpClient, logger)
	case "openai":
		return NewOpenAIProvider(cfg, httpClient, logger), nil
	case "anthropic":
		return NewAnthropicProvider(cfg, httpClient, logger), nil
	default:
		return nil, common.NewValidationError("ai_config.provider", name, fmt.Sprintf("unsupported provider '%s'", name))
	}
}

func providerError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &common.AIProviderError{Provider: provider, Err: err}
}
