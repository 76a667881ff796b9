package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

// SlackChannel posts mrkdwn messages and uploads files with a bot token
type SlackChannel struct {
	api        *slack.Client
	channelID  string
	maxSummary int
	logger     zerolog.Logger
}

// NewSlackChannel creates a Slack channel
func NewSlackChannel(cfg config.SlackConfig, httpClient *http.Client, maxSummary int, logger zerolog.Logger) *SlackChannel {
	opts := []slack.Option{}
	if httpClient != nil {
		opts = append(opts, slack.OptionHTTPClient(httpClient))
	}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimRight(cfg.APIURL, "/")+"/"))
	}
	return &SlackChannel{
		api:        slack.New(cfg.Token, opts...),
		channelID:  cfg.ChannelID,
		maxSummary: maxSummary,
		logger:     logger.With().Str("component", "SlackChannel").Logger(),
	}
}

func (c *SlackChannel) Name() string { return "slack" }

func (c *SlackChannel) Send(ctx context.Context, event models.NotificationEvent) error {
	text := formatSlackMrkdwn(event, c.maxSummary)
	if _, _, err := c.api.PostMessageContext(ctx, c.channelID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}

	for _, att := range event.Attachments {
		if len(att.Content) == 0 {
			continue
		}
		_, err := c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
			Channel:  c.channelID,
			Filename: att.Name,
			FileSize: len(att.Content),
			Reader:   bytes.NewReader(att.Content),
			Title:    attachmentCaption(att, slackTitles, event.URL),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", att.Name, err)
		}
	}
	return nil
}
