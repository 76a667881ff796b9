package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/aleister1102/jsmon/internal/models"
)

const (
	newFileTitle        = "New JavaScript File Enrolled"
	changeTitle         = "JavaScript Change Analysis"
	analysisUnavailable = "AI analysis unavailable for this change. Review the attached diff manually."
	lowConfidenceNote   = "Low confidence analysis. Consider re-running or reviewing the diff manually."
	truncatedSuffix     = "..."
)

// riskEmoji maps a risk tier to its marker. Unknown tiers use the LOW marker.
func riskEmoji(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return "🚨"
	case models.RiskMedium:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// riskLabel is the text shown for the risk level; empty when no analysis exists
func riskLabel(event models.NotificationEvent) string {
	if !event.AnalysisAvailable || event.RiskLevel == "" {
		return ""
	}
	return string(event.RiskLevel)
}

// truncateRunes cuts s to at most max runes, appending an ellipsis when cut
func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + truncatedSuffix
}

// changeBody is the summary paragraph of a change alert
func changeBody(event models.NotificationEvent) string {
	if !event.AnalysisAvailable {
		return analysisUnavailable
	}
	return event.ShortSummary
}

// formatTelegramHTML renders an event in Telegram's HTML parse mode
func formatTelegramHTML(event models.NotificationEvent, maxSummary int) string {
	var sb strings.Builder
	esc := html.EscapeString

	if event.Kind == models.EventNewFile {
		fmt.Fprintf(&sb, "✅ <b>%s</b>\n\n", newFileTitle)
		fmt.Fprintf(&sb, "<b>File URL:</b> %s\n\n", esc(event.URL))
		fmt.Fprintf(&sb, "<b>Summary:</b>\n%s", esc(truncateRunes(event.ShortSummary, maxSummary)))
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s <b>%s</b>\n\n", riskEmoji(event.RiskLevel), changeTitle)
	fmt.Fprintf(&sb, "<b>File URL:</b> %s\n\n", esc(event.URL))
	if label := riskLabel(event); label != "" {
		fmt.Fprintf(&sb, "<b>Risk Level:</b> %s\n\n", label)
	}
	if event.DiffStats != "" {
		fmt.Fprintf(&sb, "<b>Diff:</b> %s\n\n", esc(event.DiffStats))
	}
	body := esc(truncateRunes(changeBody(event), maxSummary))
	if event.LowConfidence {
		fmt.Fprintf(&sb, "<i>%s</i>\n\n<i>%s</i>", body, lowConfidenceNote)
	} else {
		sb.WriteString(body)
	}
	return sb.String()
}

// escapeSlack escapes the three characters Slack treats as control sequences
func escapeSlack(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// formatSlackMrkdwn renders an event with Slack's mrkdwn syntax
func formatSlackMrkdwn(event models.NotificationEvent, maxSummary int) string {
	var sb strings.Builder

	if event.Kind == models.EventNewFile {
		fmt.Fprintf(&sb, "✅ *%s*\n\n", newFileTitle)
		fmt.Fprintf(&sb, "*File URL:* %s\n\n", escapeSlack(event.URL))
		fmt.Fprintf(&sb, "*Summary:*\n%s", escapeSlack(truncateRunes(event.ShortSummary, maxSummary)))
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s *%s*\n\n", riskEmoji(event.RiskLevel), changeTitle)
	fmt.Fprintf(&sb, "*File URL:* %s\n\n", escapeSlack(event.URL))
	if label := riskLabel(event); label != "" {
		fmt.Fprintf(&sb, "*Risk Level:* %s\n\n", label)
	}
	if event.DiffStats != "" {
		fmt.Fprintf(&sb, "*Diff:* %s\n\n", escapeSlack(event.DiffStats))
	}
	body := escapeSlack(truncateRunes(changeBody(event), maxSummary))
	if event.LowConfidence {
		fmt.Fprintf(&sb, "_%s_\n\n_%s_", body, lowConfidenceNote)
	} else {
		sb.WriteString(body)
	}
	return sb.String()
}

// Attachment names produced by the monitor
const (
	DiffAttachmentName    = "diff.html"
	SummaryAttachmentName = "summary.html"
)

var (
	telegramCaptions = map[string]string{DiffAttachmentName: "Diff file", SummaryAttachmentName: "Summary of changes"}
	slackTitles      = map[string]string{DiffAttachmentName: "Diff", SummaryAttachmentName: "Summary"}
)

// attachmentCaption returns "<prefix> for <url>" unless the attachment carries its own caption
func attachmentCaption(att models.Attachment, prefixes map[string]string, url string) string {
	if att.Caption != "" {
		return att.Caption
	}
	prefix, ok := prefixes[att.Name]
	if !ok {
		prefix = att.Name
	}
	return fmt.Sprintf("%s for %s", prefix, url)
}
