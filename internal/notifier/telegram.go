package notifier

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

// telegramMessageLimit is the maximum length of a Telegram text message
const telegramMessageLimit = 4096

// TelegramChannel posts HTML messages and documents through a Telegram bot
type TelegramChannel struct {
	cfg        config.TelegramConfig
	httpClient *http.Client
	maxSummary int
	logger     zerolog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramChannel creates a Telegram channel. The bot is authenticated on first use.
func NewTelegramChannel(cfg config.TelegramConfig, httpClient *http.Client, maxSummary int, logger zerolog.Logger) *TelegramChannel {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TelegramChannel{
		cfg:        cfg,
		httpClient: httpClient,
		maxSummary: maxSummary,
		logger:     logger.With().Str("component", "TelegramChannel").Logger(),
	}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) client() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bot != nil {
		return c.bot, nil
	}

	endpoint := c.cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(c.cfg.Token, endpoint, c.httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	c.logger.Debug().Str("bot", bot.Self.UserName).Msg("Telegram bot authorized")
	c.bot = bot
	return bot, nil
}

// Send posts the message first and then every attachment as a document.
// The bot API has no context support, so ctx is checked between calls.
func (c *TelegramChannel) Send(ctx context.Context, event models.NotificationEvent) error {
	bot, err := c.client()
	if err != nil {
		return err
	}

	text := truncateRunes(formatTelegramHTML(event, c.maxSummary), telegramMessageLimit-len(truncatedSuffix))
	msg := tgbotapi.NewMessage(c.cfg.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}

	for _, att := range event.Attachments {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := tgbotapi.NewDocument(c.cfg.ChatID, tgbotapi.FileBytes{Name: att.Name, Bytes: att.Content})
		doc.Caption = attachmentCaption(att, telegramCaptions, event.URL)
		if _, err := bot.Send(doc); err != nil {
			return fmt.Errorf("sendDocument %s: %w", att.Name, err)
		}
	}
	return nil
}
