package analyst

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog"
)

const providerOpenAI = "openai"

// OpenAIProvider calls the chat completions API of OpenAI or a compatible gateway
type OpenAIProvider struct {
	client openai.Client
	logger zerolog.Logger
}

// NewOpenAIProvider creates an OpenAI-backed provider
func NewOpenAIProvider(cfg config.AIConfig, httpClient *http.Client, logger zerolog.Logger) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(normalizeOpenAIBaseURL(cfg.BaseURL)))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		logger: logger.With().Str("component", "OpenAIProvider").Logger(),
	}
}

func (p *OpenAIProvider) Name() string { return providerOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", providerError(providerOpenAI, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", providerError(providerOpenAI, errors.New("no choices in response"))
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", providerError(providerOpenAI, errors.New("empty response"))
	}
	return content, nil
}

// normalizeOpenAIBaseURL makes sure the base URL ends with the /v1 API prefix
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}
