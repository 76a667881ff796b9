package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aleister1102/jsmon/internal/analyst"
	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/datastore"
	"github.com/aleister1102/jsmon/internal/differ"
	"github.com/aleister1102/jsmon/internal/extractor"
	"github.com/aleister1102/jsmon/internal/models"
)

// ContentFetcher retrieves the current bytes of a target
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Analyzer produces structured AI reports
type Analyzer interface {
	Summarize(ctx context.Context, req analyst.SummaryRequest) (*models.Summary, analyst.Meta, error)
	AnalyzeChange(ctx context.Context, req analyst.ChangeRequest) (*models.ChangeAnalysis, analyst.Meta, error)
}

// Notifier delivers events to the configured channels
type Notifier interface {
	Notify(ctx context.Context, event models.NotificationEvent) []models.DeliveryResult
}

// RunRecorder persists finished run reports
type RunRecorder interface {
	RecordRun(ctx context.Context, report *models.RunReport) error
}

// RunObserver exports run level metrics
type RunObserver interface {
	ObserveRun(report *models.RunReport)
	ObserveMemory(rssBytes uint64)
	WriteTextfile(path string) error
}

// Options are the behavioral switches of a Service
type Options struct {
	AutoGenerateSummaries bool
	NotifyOnNewFile       bool
	PromptMaxSize         int
	MetricsTextfile       string
}

// Service runs the per-target monitoring state machine over a list of targets.
// Targets are processed one at a time.
type Service struct {
	fetcher       ContentFetcher
	fingerprinter *Fingerprinter
	store         *datastore.VersionStore
	differ        *differ.Engine
	endpoints     *extractor.EndpointExtractor
	analyzer      Analyzer
	notifier      Notifier
	recorder      RunRecorder
	observer      RunObserver
	retrier       *common.Retrier
	opts          Options

	now      func() time.Time
	newRunID func() string
	usage    func() ResourceUsage
	logger   zerolog.Logger
}

// NewService creates a Service. The analyzer, notifier, recorder and observer
// are optional and can be attached with the With* methods.
func NewService(fetcher ContentFetcher, fingerprinter *Fingerprinter, store *datastore.VersionStore, diffEngine *differ.Engine, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:       fetcher,
		fingerprinter: fingerprinter,
		store:         store,
		differ:        diffEngine,
		retrier:       common.NoRetry(),
		opts:          opts,
		now:           time.Now,
		newRunID:      uuid.NewString,
		usage:         GetResourceUsage,
		logger:        logger.With().Str("component", "MonitorService").Logger(),
	}
}

func (s *Service) WithAnalyzer(a Analyzer) *Service {
	s.analyzer = a
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) WithEndpointExtractor(e *extractor.EndpointExtractor) *Service {
	s.endpoints = e
	return s
}

func (s *Service) WithRecorder(r RunRecorder) *Service {
	s.recorder = r
	return s
}

func (s *Service) WithObserver(o RunObserver) *Service {
	s.observer = o
	return s
}

// WithRetrier sets the policy applied around fetches
func (s *Service) WithRetrier(r *common.Retrier) *Service {
	if r != nil {
		s.retrier = r
	}
	return s
}

// Run processes every target in order and returns the run report.
// A canceled context stops the run between targets; the remaining targets
// are reported as skipped.
func (s *Service) Run(ctx context.Context, targets []string) *models.RunReport {
	report := &models.RunReport{
		RunID:     s.newRunID(),
		StartedAt: s.now(),
		Results:   make([]models.TargetResult, 0, len(targets)),
	}
	s.logger.Info().Str("run_id", report.RunID).Int("targets", len(targets)).Msg("Monitoring run started")

	for i, url := range targets {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Err(err).Int("remaining", len(targets)-i).Msg("Run canceled, remaining targets not processed")
			for _, rest := range targets[i:] {
				report.Results = append(report.Results, models.TargetResult{
					URL:     rest,
					Outcome: models.OutcomeSkipped,
					Err:     err,
					Error:   fmt.Sprintf("not processed: %v", err),
				})
			}
			break
		}

		s.logger.Info().Str("url", url).Int("index", i+1).Int("total", len(targets)).Msg("Checking target")
		report.Results = append(report.Results, s.processTarget(ctx, url))
	}

	report.FinishedAt = s.now()
	s.finishRun(ctx, report)
	return report
}

// finishRun logs, persists and exports the report. Failures here never change the report.
func (s *Service) finishRun(ctx context.Context, report *models.RunReport) {
	ctx = context.WithoutCancel(ctx)

	var usage ResourceUsage
	if s.usage != nil {
		usage = s.usage()
	}
	s.logReport(report, usage)

	if s.recorder != nil {
		if err := s.recorder.RecordRun(ctx, report); err != nil {
			s.logger.Error().Err(err).Str("run_id", report.RunID).Msg("Failed to record run in audit log")
		}
	}

	if s.observer != nil {
		s.observer.ObserveRun(report)
		if usage.RSSBytes > 0 {
			s.observer.ObserveMemory(usage.RSSBytes)
		}
		if s.opts.MetricsTextfile != "" {
			if err := s.observer.WriteTextfile(s.opts.MetricsTextfile); err != nil {
				s.logger.Error().Err(err).Str("path", s.opts.MetricsTextfile).Msg("Failed to write metrics textfile")
			}
		}
	}
}
