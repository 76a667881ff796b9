package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "jsmon.log")

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info().Msg("hello")

	_, statErr := os.Stat(cfg.LogFile)
	assert.NoError(t, statErr)
}

func TestLoggerBuilder_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LogConfig{LogFormat: "json", LogLevel: "warn"}

	built, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)
	zl := built.GetZerolog()

	zl.Info().Msg("dropped")
	zl.Warn().Str("url", "https://example.com/app.js").Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"url":"https://example.com/app.js"`)
	assert.Equal(t, zerolog.WarnLevel, built.Config().Level)
	assert.False(t, built.Config().EnableFile)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func TestLogLevelParser(t *testing.T) {
	parser := NewLogLevelParser()

	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		level, err := parser.ParseLevel(tt.input)
		assert.Equal(t, tt.expected, level, tt.input)
		assert.Equal(t, tt.wantErr, err != nil, tt.input)
	}
}

func TestLogFormatParser(t *testing.T) {
	parser := NewLogFormatParser()
	assert.Equal(t, FormatJSON, parser.ParseFormat("JSON"))
	assert.Equal(t, FormatText, parser.ParseFormat("text"))
	assert.Equal(t, FormatConsole, parser.ParseFormat("console"))
	assert.Equal(t, FormatConsole, parser.ParseFormat("unknown"))
	assert.Equal(t, "json", FormatJSON.String())
}
