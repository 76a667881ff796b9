package analyst

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ConversationLog keeps a JSON file per model answer for later review
type ConversationLog struct {
	dir    string
	now    func() time.Time
	logger zerolog.Logger
}

type conversationEntry struct {
	Timestamp    string         `json:"timestamp"`
	ResponseType string         `json:"response_type"`
	URL          string         `json:"url"`
	Fingerprint  string         `json:"fingerprint"`
	Content      any            `json:"content"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewConversationLog creates a log rooted at dir. An empty dir disables it.
func NewConversationLog(dir string, logger zerolog.Logger) *ConversationLog {
	return &ConversationLog{
		dir:    dir,
		now:    time.Now,
		logger: logger.With().Str("component", "ConversationLog").Logger(),
	}
}

// Record writes one answer. Failures are logged and otherwise ignored.
func (l *ConversationLog) Record(responseType, url, fingerprint, raw string, meta Meta) string {
	if l == nil || l.dir == "" {
		return ""
	}
	now := l.now()

	var content any = raw
	if body, err := extractJSON(raw); err == nil && json.Valid([]byte(body)) {
		content = json.RawMessage(body)
	}

	entry := conversationEntry{
		Timestamp:    now.Format(time.RFC3339),
		ResponseType: responseType,
		URL:          url,
		Fingerprint:  fingerprint,
		Content:      content,
		Metadata: map[string]any{
			"provider":    meta.Provider,
			"model":       meta.Model,
			"duration_ms": meta.Duration.Milliseconds(),
		},
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		l.logger.Warn().Err(err).Str("type", responseType).Msg("Failed to encode AI conversation")
		return ""
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		l.logger.Warn().Err(err).Str("dir", l.dir).Msg("Failed to create AI conversation directory")
		return ""
	}

	name := fmt.Sprintf("%s_%s_%s.json", responseType, fingerprint, now.Format("20060102_150405"))
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		l.logger.Warn().Err(err).Str("path", path).Msg("Failed to write AI conversation")
		return ""
	}
	l.logger.Debug().Str("path", path).Msg("AI conversation saved")
	return path
}
