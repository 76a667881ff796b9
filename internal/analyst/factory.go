package analyst

import (
	"context"
	"net/http"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
)

// NewFromConfig builds the configured provider, wraps it with the rate limiter,
// retry and per-call timeout middlewares and returns an Analyst using it.
func NewFromConfig(ctx context.Context, aiCfg config.AIConfig, retryCfg config.RetryConfig, httpClient *http.Client, logger zerolog.Logger) (*Analyst, error) {
	provider, err := NewProvider(ctx, aiCfg, httpClient, logger)
	if err != nil {
		return nil, err
	}

	retrier := common.NewRetrier(retryCfg.Policy(), logger)

	wrapped := Wrap(provider,
		WithRetry(retrier),
		WithRateLimit(aiCfg.RequestsPerMinute),
		WithTimeout(aiCfg.RequestTimeout()),
	)
	return NewAnalyst(wrapped, aiCfg, logger), nil
}
