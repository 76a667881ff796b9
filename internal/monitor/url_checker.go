package monitor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/aleister1102/jsmon/internal/analyst"
	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/extractor"
	"github.com/aleister1102/jsmon/internal/models"
)

const lowConfidenceRecommendation = "Analysis confidence is low; re-run the analysis or review the diff manually."

// processTarget drives one target from fetch to notification. Every error and
// panic stops at this boundary and is recorded on the result.
func (s *Service) processTarget(ctx context.Context, url string) (res models.TargetResult) {
	start := s.now()
	res.URL = url
	logger := s.logger.With().Str("url", url).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic while processing target")
			res.Outcome = models.OutcomeFailed
			res.Err = fmt.Errorf("panic: %v", r)
		}
		if res.Err != nil {
			res.Error = res.Err.Error()
		}
		res.Duration = s.now().Sub(start)
	}()

	var fetched *FetchResult
	err := s.retrier.Do(ctx, "fetch", func(ctx context.Context) error {
		var err error
		fetched, err = s.fetcher.Fetch(ctx, url)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch target")
		return failed(res, err)
	}

	fp := s.fingerprinter.Fingerprint(fetched.Content)
	res.Fingerprint = fp

	prev, known, err := s.store.PreviousFingerprint(ctx, url)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to look up previous fingerprint")
		return failed(res, err)
	}

	switch {
	case !known:
		return s.handleNew(ctx, res, fetched)
	case prev == fp:
		return s.handleUnchanged(ctx, res)
	default:
		res.PreviousFingerprint = prev
		return s.handleChanged(ctx, res, fetched)
	}
}

func failed(res models.TargetResult, err error) models.TargetResult {
	res.Outcome = models.OutcomeFailed
	res.Err = err
	return res
}

func (s *Service) persist(ctx context.Context, res models.TargetResult, fetched *FetchResult) error {
	return s.store.PersistVersion(ctx, models.Version{
		Fingerprint: res.Fingerprint,
		URL:         res.URL,
		Content:     fetched.Content,
		CapturedAt:  fetched.FetchedAt,
		Size:        len(fetched.Content),
	})
}

func (s *Service) handleUnchanged(ctx context.Context, res models.TargetResult) models.TargetResult {
	if err := s.store.TouchTarget(ctx, res.URL, s.now()); err != nil {
		s.logger.Warn().Err(err).Str("url", res.URL).Msg("Failed to refresh last-seen time")
	}
	s.logger.Info().Str("url", res.URL).Str("fingerprint", res.Fingerprint).Msg("No changes detected")
	res.Outcome = models.OutcomeUnchanged
	return res
}

func (s *Service) handleNew(ctx context.Context, res models.TargetResult, fetched *FetchResult) models.TargetResult {
	logger := s.logger.With().Str("url", res.URL).Str("fingerprint", res.Fingerprint).Logger()
	stored, err := s.store.HasVersion(ctx, res.Fingerprint)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to check for stored content")
	}
	if stored {
		logger.Info().Msg("Content already stored for another target, reusing it")
	}

	if err := s.persist(ctx, res, fetched); err != nil {
		logger.Error().Err(err).Msg("Failed to persist first version")
		return failed(res, err)
	}
	logger.Info().Int("size", len(fetched.Content)).Msg("New file enrolled")

	summary := s.summaryFor(ctx, res, fetched.Content, stored)
	res.AnalysisAvailable = summary != nil

	if s.opts.NotifyOnNewFile {
		res.Notifications = s.notify(ctx, newFileEvent(res, summary))
	}
	res.Outcome = models.OutcomeNew
	return res
}

// summaryFor returns the stored summary of the version, generating it when allowed.
// Only content that was already stored can have a summary.
func (s *Service) summaryFor(ctx context.Context, res models.TargetResult, content []byte, stored bool) *models.Summary {
	logger := s.logger.With().Str("url", res.URL).Str("fingerprint", res.Fingerprint).Logger()

	if stored {
		existing, err := s.store.LoadSummary(ctx, res.Fingerprint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load stored summary")
		}
		if existing != nil {
			logger.Debug().Msg("Reusing stored summary")
			return existing
		}
	}
	if !s.opts.AutoGenerateSummaries || s.analyzer == nil {
		return nil
	}

	req := analyst.SummaryRequest{URL: res.URL, Fingerprint: res.Fingerprint, Content: content}
	if s.endpoints != nil {
		req.Endpoints = s.endpoints.Extract(res.URL, content)
	}
	summary, _, err := s.analyzer.Summarize(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Summary unavailable")
		return nil
	}
	if err := s.store.PersistSummary(ctx, res.Fingerprint, *summary); err != nil && !common.IsAlreadyExists(err) {
		logger.Error().Err(err).Msg("Failed to persist summary")
	}
	return summary
}

func (s *Service) handleChanged(ctx context.Context, res models.TargetResult, fetched *FetchResult) models.TargetResult {
	logger := s.logger.With().Str("url", res.URL).Str("previous", res.PreviousFingerprint).Str("current", res.Fingerprint).Logger()
	if err := s.persist(ctx, res, fetched); err != nil {
		logger.Error().Err(err).Msg("Failed to persist new version")
		return failed(res, err)
	}
	logger.Info().Msg("Change detected")

	prevContent, err := s.store.LoadContent(ctx, res.PreviousFingerprint)
	if err != nil {
		logger.Warn().Err(err).Msg("Previous content missing, diffing against an empty file")
		prevContent = nil
	}

	diff := s.differ.Diff(prevContent, fetched.Content, res.PreviousFingerprint, res.Fingerprint)

	var delta extractor.EndpointDelta
	if s.endpoints != nil {
		delta = s.endpoints.Delta(res.URL, prevContent, fetched.Content)
	}

	transition := models.Transition{Previous: res.PreviousFingerprint, Current: res.Fingerprint}
	promptCut := s.opts.PromptMaxSize > 0 && len(diff.Text) > s.opts.PromptMaxSize
	analysis := s.analysisFor(ctx, res, transition, diff.PromptText(s.opts.PromptMaxSize), diff.Truncated || promptCut, delta)

	if analysis != nil {
		res.AnalysisAvailable = true
		res.RiskLevel = analysis.RiskLevel
		res.Category = analysis.DetailedAnalysis.ChangeOverview.Category
		if analysis.LowConfidence() {
			res.Recommendation = lowConfidenceRecommendation
		}
	}

	event := changeEvent(res, analysis, diff.Stats.Summary)
	event.Attachments = s.changeAttachments(res, analysis, diff.Visual, delta)
	res.Notifications = s.notify(ctx, event)
	res.Outcome = models.OutcomeChanged
	return res
}

// analysisFor returns the stored analysis of the transition, generating it when missing
func (s *Service) analysisFor(ctx context.Context, res models.TargetResult, t models.Transition, diffText string, truncated bool, delta extractor.EndpointDelta) *models.ChangeAnalysis {
	logger := s.logger.With().Str("url", res.URL).Str("previous", t.Previous).Str("current", t.Current).Logger()

	existing, err := s.store.LoadAnalysis(ctx, t)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load stored analysis")
	}
	if existing != nil {
		logger.Debug().Msg("Reusing stored analysis")
		return existing
	}
	if s.analyzer == nil {
		return nil
	}

	analysis, _, err := s.analyzer.AnalyzeChange(ctx, analyst.ChangeRequest{
		URL:                 res.URL,
		Fingerprint:         t.Current,
		PreviousFingerprint: t.Previous,
		PreviousSummary:     s.previousSummary(ctx, res.URL, t.Previous),
		DiffText:            diffText,
		Truncated:           truncated,
		Endpoints:           delta,
	})
	if err != nil {
		var malformed *common.MalformedAIResponseError
		if errors.As(err, &malformed) {
			logger.Error().Err(err).Msg("Change analysis rejected, notifying without it")
		} else {
			logger.Error().Err(err).Msg("Change analysis failed, notifying without it")
		}
		return nil
	}

	if err := s.store.PersistAnalysis(ctx, t, *analysis); err != nil && !common.IsAlreadyExists(err) {
		logger.Error().Err(err).Msg("Failed to persist analysis")
	}
	return analysis
}

// previousSummary returns the summary of prev, falling back to the target's first version
func (s *Service) previousSummary(ctx context.Context, url, prev string) *models.Summary {
	summary, err := s.store.LoadSummary(ctx, prev)
	if err == nil && summary != nil {
		return summary
	}
	initial, ok, err := s.store.InitialFingerprint(ctx, url)
	if err != nil || !ok || initial == prev {
		return nil
	}
	summary, err = s.store.LoadSummary(ctx, initial)
	if err != nil {
		return nil
	}
	return summary
}

func (s *Service) notify(ctx context.Context, event models.NotificationEvent) []models.DeliveryResult {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Notify(ctx, event)
}
