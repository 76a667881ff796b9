package analyst

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

const providerAnthropic = "anthropic"

// AnthropicProvider calls the Anthropic messages API
type AnthropicProvider struct {
	client anthropic.Client
	logger zerolog.Logger
}

// NewAnthropicProvider creates an Anthropic-backed provider
func NewAnthropicProvider(cfg config.AIConfig, httpClient *http.Client, logger zerolog.Logger) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		logger: logger.With().Str("component", "AnthropicProvider").Logger(),
	}
}

func (p *AnthropicProvider) Name() string { return providerAnthropic }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = config.DefaultAISummaryMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(min(req.Temperature, 1)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", providerError(providerAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", providerError(providerAnthropic, errors.New("empty response"))
	}
	return sb.String(), nil
}
