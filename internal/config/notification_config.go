package config

// TelegramConfig configures the Telegram bot channel
type TelegramConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Token       string `json:"token,omitempty" yaml:"token,omitempty"`
	ChatID      int64  `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty" yaml:"api_endpoint,omitempty"`
}

// SlackConfig configures the Slack bot channel
type SlackConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Token     string `json:"token,omitempty" yaml:"token,omitempty"`
	ChannelID string `json:"channel_id,omitempty" yaml:"channel_id,omitempty"`
	APIURL    string `json:"api_url,omitempty" yaml:"api_url,omitempty" validate:"omitempty,url"`
}

// DiscordConfig configures the Discord webhook channel
type DiscordConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled"`
	WebhookURL     string   `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" validate:"omitempty,url"`
	MentionRoleIDs []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
}

// NotificationConfig defines configuration for notifications
type NotificationConfig struct {
	Telegram           TelegramConfig `json:"telegram" yaml:"telegram"`
	Slack              SlackConfig    `json:"slack" yaml:"slack"`
	Discord            DiscordConfig  `json:"discord" yaml:"discord"`
	NotifyOnNewFile    bool           `json:"notify_on_new_file" yaml:"notify_on_new_file"`
	MaxSummaryChars    int            `json:"max_summary_chars,omitempty" yaml:"max_summary_chars,omitempty" validate:"omitempty,min=100"`
	RequestTimeoutSecs int            `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		NotifyOnNewFile:    true,
		MaxSummaryChars:    DefaultNotificationMaxSummaryChars,
		RequestTimeoutSecs: 20,
	}
}
