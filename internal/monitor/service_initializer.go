package monitor

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/jsmon/internal/analyst"
	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/datastore"
	"github.com/aleister1102/jsmon/internal/differ"
	"github.com/aleister1102/jsmon/internal/extractor"
	"github.com/aleister1102/jsmon/internal/httpclient"
	"github.com/aleister1102/jsmon/internal/metrics"
	"github.com/aleister1102/jsmon/internal/notifier"
)

// Runtime is a fully wired Service together with the resources it owns
type Runtime struct {
	Service *Service
	Store   *datastore.VersionStore
	Audit   *datastore.AuditLog
	Metrics *metrics.Recorder

	closers []io.Closer
}

// Close releases the stores opened by NewRuntime
func (r *Runtime) Close() error {
	var collector common.ErrorCollector
	for i := len(r.closers) - 1; i >= 0; i-- {
		collector.Add(r.closers[i].Close())
	}
	if !collector.HasErrors() {
		return nil
	}
	return collector.Error()
}

// RuntimeOptions are command-line overrides of the loaded configuration
type RuntimeOptions struct {
	DryRun bool
}

// NewRuntime builds every component described by gCfg and wires them into a Service.
// A missing AI key disables analysis instead of failing.
func NewRuntime(ctx context.Context, gCfg *config.GlobalConfig, opts RuntimeOptions, logger zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{}

	fetchClient, err := initializeHTTPClient(gCfg.FetcherConfig, logger)
	if err != nil {
		return nil, err
	}

	kv, err := datastore.NewKVStore(gCfg.StorageConfig, logger)
	if err != nil {
		return nil, common.WrapError(err, "failed to open version store")
	}
	rt.closers = append(rt.closers, kv)

	var history datastore.HistoryLog
	if gCfg.StorageConfig.EnableHistoryLog {
		h, err := datastore.NewParquetHistoryStore(gCfg.StorageConfig, logger)
		if err != nil {
			_ = rt.Close()
			return nil, common.WrapError(err, "failed to open history log")
		}
		history = h
	}
	rt.Store = datastore.NewVersionStore(kv, history, logger)

	if gCfg.StorageConfig.EnableAuditLog {
		audit, err := datastore.NewAuditLog(gCfg.StorageConfig.SQLitePath, logger)
		if err != nil {
			_ = rt.Close()
			return nil, common.WrapError(err, "failed to open audit log")
		}
		rt.Audit = audit
		rt.closers = append(rt.closers, audit)
	}

	rt.Metrics = metrics.New(nil)

	opt := Options{
		AutoGenerateSummaries: gCfg.AIConfig.AutoGenerateSummaries,
		NotifyOnNewFile:       gCfg.NotificationConfig.NotifyOnNewFile,
		PromptMaxSize:         gCfg.DiffConfig.PromptMaxSize,
	}
	if gCfg.MetricsConfig.Enabled {
		opt.MetricsTextfile = gCfg.MetricsConfig.TextfilePath
	}

	svc := NewService(
		NewFetcher(fetchClient, gCfg.FetcherConfig, logger),
		NewFingerprinter(gCfg.StorageConfig.FingerprintLength),
		rt.Store,
		differ.NewEngine(gCfg.DiffConfig, logger),
		opt,
		logger,
	).WithRetrier(common.NewRetrier(gCfg.RetryConfig.Policy(), logger)).
		WithObserver(rt.Metrics)

	if rt.Audit != nil {
		svc.WithRecorder(rt.Audit)
	}
	if gCfg.MonitorConfig.ExtractEndpoints {
		svc.WithEndpointExtractor(extractor.NewEndpointExtractor(logger))
	}

	apiClient := &http.Client{Timeout: gCfg.AIConfig.RequestTimeout()}
	if gCfg.AIConfig.APIKey == "" {
		logger.Warn().Str("provider", gCfg.AIConfig.Provider).Msg("No AI API key configured, summaries and change analysis are disabled")
	} else {
		an, err := analyst.NewFromConfig(ctx, gCfg.AIConfig, gCfg.RetryConfig, apiClient, logger)
		if err != nil {
			_ = rt.Close()
			return nil, common.WrapError(err, "failed to initialize AI analyst")
		}
		svc.WithAnalyzer(an.WithObserver(rt.Metrics))
	}

	if opts.DryRun {
		logger.Info().Msg("Dry run, notifications are disabled")
	} else {
		notifyClient := &http.Client{Timeout: time.Duration(gCfg.NotificationConfig.RequestTimeoutSecs) * time.Second}
		dispatcher := notifier.NewDispatcherFromConfig(gCfg.NotificationConfig, notifyClient, logger).WithObserver(rt.Metrics)
		if len(dispatcher.Channels()) == 0 {
			logger.Warn().Msg("No notification channel enabled")
		}
		svc.WithNotifier(dispatcher)
	}

	rt.Service = svc
	return rt, nil
}

// initializeHTTPClient creates the client used to download targets
func initializeHTTPClient(fc config.FetcherConfig, logger zerolog.Logger) (*http.Client, error) {
	client, err := httpclient.NewBuilder(logger).
		WithConfig(httpclient.FromFetcherConfig(fc)).
		Build()
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP client for monitoring")
	}
	return client, nil
}
