package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

const (
	discordUsername = "jsmon"
	// maxDiscordFileSize is the upload limit of a webhook without boosts
	maxDiscordFileSize = 8 * 1024 * 1024
	maxDiscordFiles    = 10
)

// Embed colors per risk tier
const (
	HighRiskEmbedColor   = 0xDC3545
	MediumRiskEmbedColor = 0xF0AD4E
	LowRiskEmbedColor    = 0x5BC0DE
	NewFileEmbedColor    = 0x5CB85C
	UnknownEmbedColor    = 0x6C757D
)

// DiscordChannel posts embeds and files to a Discord webhook
type DiscordChannel struct {
	cfg        config.DiscordConfig
	httpClient *http.Client
	maxSummary int
	now        func() time.Time
	logger     zerolog.Logger
}

// NewDiscordChannel creates a Discord webhook channel
func NewDiscordChannel(cfg config.DiscordConfig, httpClient *http.Client, maxSummary int, logger zerolog.Logger) *DiscordChannel {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &DiscordChannel{
		cfg:        cfg,
		httpClient: httpClient,
		maxSummary: maxSummary,
		now:        time.Now,
		logger:     logger.With().Str("component", "DiscordChannel").Logger(),
	}
}

func (c *DiscordChannel) Name() string { return "discord" }

func (c *DiscordChannel) buildPayload(event models.NotificationEvent) models.DiscordMessagePayload {
	embed := NewDiscordEmbedBuilder().
		WithURL(event.URL).
		WithTimestamp(c.now()).
		WithFooter(discordUsername)

	if event.Kind == models.EventNewFile {
		embed.WithTitle("✅ " + newFileTitle).
			WithColor(NewFileEmbedColor).
			WithDescription(truncateRunes(event.ShortSummary, c.maxSummary)).
			AddField("File URL", event.URL, false).
			AddField("Fingerprint", codeSpan(event.Fingerprint), true)
	} else {
		body := truncateRunes(changeBody(event), c.maxSummary)
		if event.LowConfidence {
			body = "*" + body + "*\n\n*" + lowConfidenceNote + "*"
		}
		embed.WithTitle(riskEmoji(event.RiskLevel) + " " + changeTitle).
			WithColor(riskColor(event)).
			WithDescription(body).
			AddField("File URL", event.URL, false).
			AddField("Risk Level", riskLabel(event), true).
			AddField("Category", string(event.Category), true).
			AddField("Diff", event.DiffStats, true).
			AddField("Fingerprint", codeSpan(event.PreviousFingerprint)+" → "+codeSpan(event.Fingerprint), false)
	}

	builder := NewDiscordMessagePayloadBuilder().
		WithUsername(discordUsername).
		AddEmbed(embed.Build())

	if event.RiskLevel == models.RiskHigh && len(c.cfg.MentionRoleIDs) > 0 {
		mentions := make([]string, 0, len(c.cfg.MentionRoleIDs))
		for _, id := range c.cfg.MentionRoleIDs {
			mentions = append(mentions, "<@&"+id+">")
		}
		builder.WithContent(strings.Join(mentions, " "))
	} else {
		builder.WithAllowedMentions(models.AllowedMentions{Parse: []string{}})
	}
	return builder.Build()
}

func riskColor(event models.NotificationEvent) int {
	if !event.AnalysisAvailable {
		return UnknownEmbedColor
	}
	switch event.RiskLevel {
	case models.RiskHigh:
		return HighRiskEmbedColor
	case models.RiskMedium:
		return MediumRiskEmbedColor
	default:
		return LowRiskEmbedColor
	}
}

func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

// Send posts a multipart request with payload_json and one file[i] part per attachment
func (c *DiscordChannel) Send(ctx context.Context, event models.NotificationEvent) error {
	payloadJSON, err := json.Marshal(c.buildPayload(event))
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return fmt.Errorf("failed to write payload_json to multipart: %w", err)
	}

	files := 0
	for _, att := range event.Attachments {
		if len(att.Content) > maxDiscordFileSize {
			c.logger.Warn().Str("file", att.Name).Int("size", len(att.Content)).Msg("Attachment exceeds Discord limit, skipping")
			continue
		}
		if files == maxDiscordFiles {
			break
		}
		part, err := writer.CreateFormFile(fmt.Sprintf("file[%d]", files), att.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(att.Content); err != nil {
			return fmt.Errorf("failed to copy file data to form: %w", err)
		}
		files++
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, body)
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("discord webhook failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	c.logger.Debug().Int("status_code", resp.StatusCode).Int("files", files).Msg("Discord webhook accepted")
	return nil
}
