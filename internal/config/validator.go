package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := newValidator()

	var messages []string
	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("configuration validation error: %w", err)
		}
		for _, e := range errs {
			messages = append(messages, formatFieldError(e))
		}
	}

	messages = append(messages, validateChannels(cfg.NotificationConfig)...)

	if len(messages) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return nil
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", oneOfFold("debug", "info", "warn", "error", "fatal", "panic"))
	_ = validate.RegisterValidation("logformat", oneOfFold("console", "text", "json"))
	_ = validate.RegisterValidation("aiprovider", oneOfFold("gemini", "openai", "anthropic"))
	_ = validate.RegisterValidation("storagebackend", oneOfFold("filesystem", "sqlite"))
	_ = validate.RegisterValidation("compressioncodec", oneOfFold("zstd", "snappy", "gzip", "none"))

	return validate
}

// oneOfFold builds a case-insensitive enumeration check. Empty values pass so
// the tags can be combined with omitempty.
func oneOfFold(allowed ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.ToLower(fl.Field().String())
		if value == "" {
			return true
		}
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}

func formatFieldError(e validator.FieldError) string {
	fieldName := e.Namespace()
	if idx := strings.Index(fieldName, "."); idx >= 0 {
		fieldName = fieldName[idx+1:]
	}
	msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
	if e.Param() != "" {
		msg += fmt.Sprintf(" (expected: %s)", e.Param())
	}
	if e.Value() != nil && e.Value() != "" {
		msg += fmt.Sprintf(", actual: '%v'", e.Value())
	}
	return msg
}

// validateChannels checks that every enabled channel carries its credentials
func validateChannels(cfg NotificationConfig) []string {
	var messages []string
	if cfg.Telegram.Enabled {
		if cfg.Telegram.Token == "" {
			messages = append(messages, "Telegram is enabled but 'notification_config.telegram.token' is empty")
		}
		if cfg.Telegram.ChatID == 0 {
			messages = append(messages, "Telegram is enabled but 'notification_config.telegram.chat_id' is empty")
		}
	}
	if cfg.Slack.Enabled {
		if cfg.Slack.Token == "" {
			messages = append(messages, "Slack is enabled but 'notification_config.slack.token' is empty")
		}
		if cfg.Slack.ChannelID == "" {
			messages = append(messages, "Slack is enabled but 'notification_config.slack.channel_id' is empty")
		}
	}
	if cfg.Discord.Enabled && cfg.Discord.WebhookURL == "" {
		messages = append(messages, "Discord is enabled but 'notification_config.discord.webhook_url' is empty")
	}
	return messages
}
