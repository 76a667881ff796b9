package models

import "time"

// EventKind distinguishes new-file announcements from change alerts.
type EventKind string

const (
	EventNewFile EventKind = "new_file"
	EventChange  EventKind = "change"
)

// Attachment is a named document delivered alongside a message.
type Attachment struct {
	Name    string
	Content []byte
	Caption string
}

// NotificationEvent is the input of the notification dispatcher.
type NotificationEvent struct {
	Kind                EventKind
	URL                 string
	Fingerprint         string
	PreviousFingerprint string
	RiskLevel           RiskLevel
	Category            ChangeCategory
	ShortSummary        string
	DiffStats           string
	AnalysisAvailable   bool
	LowConfidence       bool
	Attachments         []Attachment
}

// DeliveryResult is the outcome of one channel delivery.
type DeliveryResult struct {
	Channel string    `json:"channel"`
	Success bool      `json:"success"`
	Err     error     `json:"-"`
	Error   string    `json:"error,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// NotificationRecord is the audit entry persisted for each delivery attempt.
type NotificationRecord struct {
	RunID   string
	URL     string
	Channel string
	Kind    EventKind
	Success bool
	Error   string
	SentAt  time.Time
}

// DiscordMessagePayload represents the JSON payload sent to a Discord webhook.
type DiscordMessagePayload struct {
	Content         string           `json:"content,omitempty"`
	Username        string           `json:"username,omitempty"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
	Embeds          []DiscordEmbed   `json:"embeds,omitempty"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

// AllowedMentions specifies how mentions should be handled in a message.
type AllowedMentions struct {
	Parse []string `json:"parse"`
}

// DiscordEmbed represents a Discord embed object.
type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
}

// DiscordEmbedFooter represents the footer of an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordEmbedField represents a field in an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}
