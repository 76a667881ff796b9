package monitor

import (
	"strings"

	"github.com/aleister1102/jsmon/internal/extractor"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/aleister1102/jsmon/internal/notifier"
)

const noSummaryText = "Summary was not generated for this new file."

func newFileEvent(res models.TargetResult, summary *models.Summary) models.NotificationEvent {
	text := noSummaryText
	if summary != nil {
		text = summary.ConciseSummary
		if purpose := summary.DetailedAnalysis.FileOverview.Purpose; purpose != "" {
			text += "\n\nPurpose: " + purpose
		}
	}
	return models.NotificationEvent{
		Kind:              models.EventNewFile,
		URL:               res.URL,
		Fingerprint:       res.Fingerprint,
		ShortSummary:      text,
		AnalysisAvailable: summary != nil,
	}
}

// changeEvent builds the alert of a transition. Without an analysis no risk level is guessed.
func changeEvent(res models.TargetResult, analysis *models.ChangeAnalysis, diffStats string) models.NotificationEvent {
	event := models.NotificationEvent{
		Kind:                models.EventChange,
		URL:                 res.URL,
		Fingerprint:         res.Fingerprint,
		PreviousFingerprint: res.PreviousFingerprint,
		DiffStats:           diffStats,
	}
	if analysis != nil {
		event.AnalysisAvailable = true
		event.RiskLevel = analysis.RiskLevel
		event.Category = analysis.DetailedAnalysis.ChangeOverview.Category
		event.ShortSummary = analysis.ShortSummary
		event.LowConfidence = analysis.LowConfidence()
	}
	return event
}

func (s *Service) changeAttachments(res models.TargetResult, analysis *models.ChangeAnalysis, visualDiff string, delta extractor.EndpointDelta) []models.Attachment {
	var attachments []models.Attachment
	if visualDiff != "" {
		attachments = append(attachments, models.Attachment{Name: notifier.DiffAttachmentName, Content: []byte(visualDiff)})
	}
	if analysis == nil {
		return attachments
	}

	page, err := notifier.RenderSummaryHTML(notifier.SummaryReport{
		URL:                 res.URL,
		Fingerprint:         res.Fingerprint,
		PreviousFingerprint: res.PreviousFingerprint,
		Analysis:            analysis,
		AddedEndpoints:      endpointLines(delta.Added),
		RemovedEndpoints:    endpointLines(delta.Removed),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("url", res.URL).Msg("Failed to render summary page")
		return attachments
	}
	return append(attachments, models.Attachment{Name: notifier.SummaryAttachmentName, Content: page})
}

func endpointLines(endpoints []extractor.Endpoint) []string {
	if len(endpoints) == 0 {
		return nil
	}
	lines := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		lines = append(lines, strings.TrimSpace(ep.Method+" "+ep.URL))
	}
	return lines
}

// logReport writes the end-of-run summary and one line per non-trivial result
func (s *Service) logReport(report *models.RunReport, usage ResourceUsage) {
	for _, res := range report.Results {
		switch res.Outcome {
		case models.OutcomeFailed, models.OutcomeSkipped:
			s.logger.Warn().Str("url", res.URL).Str("outcome", string(res.Outcome)).Str("error", res.Error).Msg("Target not completed")
		case models.OutcomeChanged:
			ev := s.logger.Info().Str("url", res.URL).Str("previous", res.PreviousFingerprint).Str("current", res.Fingerprint).Bool("analysis_available", res.AnalysisAvailable)
			if res.RiskLevel != "" {
				ev = ev.Str("risk_level", string(res.RiskLevel))
			}
			if res.Recommendation != "" {
				ev = ev.Str("recommendation", res.Recommendation)
			}
			ev.Msg("Target changed")
		}
	}

	s.logger.Info().
		Str("run_id", report.RunID).
		Int("total", len(report.Results)).
		Int("new", report.Count(models.OutcomeNew)).
		Int("changed", report.Count(models.OutcomeChanged)).
		Int("unchanged", report.Count(models.OutcomeUnchanged)).
		Int("failed", report.Count(models.OutcomeFailed)).
		Int("skipped", report.Count(models.OutcomeSkipped)).
		Dur("duration", report.Duration()).
		Uint64("rss_bytes", usage.RSSBytes).
		Int64("alloc_mb", usage.AllocMB).
		Int("goroutines", usage.Goroutines).
		Float64("system_mem_used_percent", usage.SystemMemUsedPercent).
		Msg("Monitoring run finished")
}
