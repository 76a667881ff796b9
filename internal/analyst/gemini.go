package analyst

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const providerGemini = "gemini"

// GeminiProvider calls the Gemini API through google.golang.org/genai
type GeminiProvider struct {
	client *genai.Client
	logger zerolog.Logger
}

// NewGeminiProvider creates a Gemini-backed provider
func NewGeminiProvider(ctx context.Context, cfg config.AIConfig, httpClient *http.Client, logger zerolog.Logger) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, providerError(providerGemini, err)
	}
	return &GeminiProvider{
		client: client,
		logger: logger.With().Str("component", "GeminiProvider").Logger(),
	}, nil
}

func (p *GeminiProvider) Name() string { return providerGemini }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}, genCfg)
	if err != nil {
		return "", providerError(providerGemini, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", providerError(providerGemini, errors.New("no candidates in response"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", providerError(providerGemini, errors.New("empty response"))
	}
	return sb.String(), nil
}
