package analyst

import (
	"context"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/extractor"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

// Meta describes the model call behind a result
type Meta struct {
	Provider  string        `json:"provider"`
	Model     string        `json:"model"`
	Operation string        `json:"operation"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	LogPath   string        `json:"log_path,omitempty"`
}

// Observer is notified of every model call outcome
type Observer interface {
	ObserveAIRequest(operation, status string)
}

// SummaryRequest is the input of Summarize
type SummaryRequest struct {
	URL         string
	Fingerprint string
	Content     []byte
	Endpoints   []extractor.Endpoint
}

// ChangeRequest is the input of AnalyzeChange
type ChangeRequest struct {
	URL                 string
	Fingerprint         string
	PreviousFingerprint string
	PreviousSummary     *models.Summary
	DiffText            string
	Truncated           bool
	Endpoints           extractor.EndpointDelta
}

// Analyst turns source files and diffs into validated structured reports
type Analyst struct {
	provider Provider
	cfg      config.AIConfig
	convLog  *ConversationLog
	observer Observer
	logger   zerolog.Logger
}

// NewAnalyst creates an analyst on top of an already wrapped provider
func NewAnalyst(provider Provider, cfg config.AIConfig, logger zerolog.Logger) *Analyst {
	a := &Analyst{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With().Str("component", "Analyst").Logger(),
	}
	if cfg.LogResponses {
		a.convLog = NewConversationLog(cfg.LogDir, logger)
	}
	return a
}

// WithObserver attaches a call observer
func (a *Analyst) WithObserver(o Observer) *Analyst {
	a.observer = o
	return a
}

// ProviderName returns the name of the backing provider
func (a *Analyst) ProviderName() string {
	return a.provider.Name()
}

// Summarize describes a version seen for the first time
func (a *Analyst) Summarize(ctx context.Context, req SummaryRequest) (*models.Summary, Meta, error) {
	prompt, err := renderPrompt("summarize.tmpl", summarizeData{
		URL:       req.URL,
		Content:   string(req.Content),
		Endpoints: req.Endpoints,
	})
	if err != nil {
		return nil, Meta{Operation: OperationSummarize}, common.WrapError(err, "failed to render summary prompt")
	}

	raw, meta, err := a.generate(ctx, OperationSummarize, a.cfg.Summarization, prompt)
	if err != nil {
		return nil, meta, err
	}
	meta.LogPath = a.convLog.Record("summary", req.URL, req.Fingerprint, raw, meta)

	var summary models.Summary
	if err := decodeResponse(OperationSummarize, raw, &summary, summaryRequiredKeys); err != nil {
		a.observe(OperationSummarize, "malformed")
		a.logger.Warn().Err(err).Str("url", req.URL).Msg("Summary response rejected")
		return nil, meta, err
	}
	a.observe(OperationSummarize, "success")
	return &summary, meta, nil
}

// AnalyzeChange assesses the transition described by req. Only the previous
// summary and the diff are sent, never the full previous source.
func (a *Analyst) AnalyzeChange(ctx context.Context, req ChangeRequest) (*models.ChangeAnalysis, Meta, error) {
	prompt, err := renderPrompt("analyze_change.tmpl", analyzeData{
		URL:             req.URL,
		PreviousSummary: previousSummaryText(req.PreviousSummary),
		DiffText:        req.DiffText,
		Truncated:       req.Truncated,
		Endpoints:       req.Endpoints,
	})
	if err != nil {
		return nil, Meta{Operation: OperationAnalyzeChange}, common.WrapError(err, "failed to render change prompt")
	}

	raw, meta, err := a.generate(ctx, OperationAnalyzeChange, a.cfg.CodeAnalysis, prompt)
	if err != nil {
		return nil, meta, err
	}
	meta.LogPath = a.convLog.Record("analysis", req.URL, req.Fingerprint, raw, meta)

	var analysis models.ChangeAnalysis
	if err := decodeResponse(OperationAnalyzeChange, raw, &analysis, analysisRequiredKeys); err != nil {
		a.observe(OperationAnalyzeChange, "malformed")
		a.logger.Warn().Err(err).Str("url", req.URL).Msg("Change analysis response rejected")
		return nil, meta, err
	}
	a.observe(OperationAnalyzeChange, "success")
	return &analysis, meta, nil
}

func (a *Analyst) generate(ctx context.Context, operation string, mc config.ModelConfig, prompt string) (string, Meta, error) {
	model := mc.Model
	if model == "" {
		model = config.DefaultAIModel
	}
	meta := Meta{
		Provider:  a.provider.Name(),
		Model:     model,
		Operation: operation,
		StartedAt: time.Now(),
	}

	raw, err := a.provider.Generate(ctx, Request{
		Operation:   operation,
		System:      systemPrompt(),
		Prompt:      prompt,
		Model:       model,
		MaxTokens:   mc.MaxTokens,
		Temperature: mc.Temperature,
		JSON:        true,
	})
	meta.Duration = time.Since(meta.StartedAt)
	if err != nil {
		a.observe(operation, "error")
		a.logger.Error().Err(err).Str("operation", operation).Str("model", model).Dur("duration", meta.Duration).Msg("AI request failed")
		return "", meta, err
	}
	a.logger.Debug().Str("operation", operation).Str("model", model).Dur("duration", meta.Duration).Int("chars", len(raw)).Msg("AI request completed")
	return raw, meta, nil
}

func (a *Analyst) observe(operation, status string) {
	if a.observer != nil {
		a.observer.ObserveAIRequest(operation, status)
	}
}
