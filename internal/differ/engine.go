package differ

import (
	"fmt"
	"strings"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// TruncationMarker is appended to any text cut to fit a size ceiling
const TruncationMarker = "\n... [truncated]"

// Stats counts changed lines
type Stats struct {
	Insertions int
	Deletions  int
	Summary    string
}

// Result holds both renderings of one diff
type Result struct {
	Text      string
	Visual    string
	Truncated bool
	Stats     Stats
}

// PromptText returns Text cut to at most max bytes for model prompts
func (r *Result) PromptText(max int) string {
	text, _ := truncateText(r.Text, max)
	return text
}

// Engine produces text and HTML diffs between two versions of a file
type Engine struct {
	cfg        config.DiffConfig
	beautifier Beautifier
	dmp        *diffmatchpatch.DiffMatchPatch
	logger     zerolog.Logger
}

// NewEngine creates a new Engine. Beautification uses JSBeautifier when enabled.
func NewEngine(cfg config.DiffConfig, logger zerolog.Logger) *Engine {
	if cfg.MaxDiffSize <= 0 {
		cfg.MaxDiffSize = config.DefaultDiffMaxSize
	}
	if cfg.ContextLines < 0 {
		cfg.ContextLines = config.DefaultDiffContextLines
	}
	if cfg.WrapColumn <= 0 {
		cfg.WrapColumn = config.DefaultDiffWrapColumn
	}
	e := &Engine{
		cfg:    cfg,
		dmp:    diffmatchpatch.New(),
		logger: logger.With().Str("component", "DiffEngine").Logger(),
	}
	if cfg.Beautify {
		e.beautifier = JSBeautifier{}
	}
	return e
}

// WithBeautifier replaces the beautifier; nil disables beautification
func (e *Engine) WithBeautifier(b Beautifier) *Engine {
	e.beautifier = b
	return e
}

// Diff compares two versions. It never fails: a beautifier error falls back to
// the raw text and a rendering error leaves Visual empty.
func (e *Engine) Diff(oldContent, newContent []byte, oldFP, newFP string) *Result {
	oldText := e.prepare(string(oldContent), oldFP)
	newText := e.prepare(string(newContent), newFP)

	oldText, newText, truncated := truncatePair(oldText, newText, e.cfg.MaxDiffSize)
	if truncated {
		e.logger.Debug().Str("old", oldFP).Str("new", newFP).Int("max_diff_size", e.cfg.MaxDiffSize).Msg("Diff input truncated")
	}

	ops := lineDiff(e.dmp, oldText, newText)
	stats := computeStats(ops)

	text := unifiedDiff(ops, "previous/"+oldFP, "current/"+newFP, e.cfg.ContextLines)
	if truncated {
		text += strings.TrimPrefix(TruncationMarker, "\n") + "\n"
	}

	visual, err := renderVisual(visualData{
		Title:          fmt.Sprintf("Diff %s → %s", oldFP, newFP),
		OldFingerprint: oldFP,
		NewFingerprint: newFP,
		Stats:          stats,
		Truncated:      truncated,
		MaxSize:        e.cfg.MaxDiffSize,
		Rows:           sideBySideRows(ops, e.cfg.WrapColumn),
	})
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to render visual diff")
	}

	return &Result{Text: text, Visual: visual, Truncated: truncated, Stats: stats}
}

func (e *Engine) prepare(src, fp string) string {
	if e.beautifier == nil || src == "" {
		return src
	}
	out, err := e.beautifier.Beautify(src)
	if err != nil || out == "" {
		e.logger.Warn().Err(err).Str("fingerprint", fp).Msg("Beautification failed, diffing raw content")
		return src
	}
	return out
}

func computeStats(ops []lineOp) Stats {
	var s Stats
	for _, op := range ops {
		switch op.Kind {
		case opInsert:
			s.Insertions++
		case opDelete:
			s.Deletions++
		}
	}
	s.Summary = fmt.Sprintf("%d insertions (+), %d deletions (-).", s.Insertions, s.Deletions)
	return s
}

// truncatePair cuts both sides proportionally so their combined length fits max
func truncatePair(oldText, newText string, max int) (string, string, bool) {
	total := len(oldText) + len(newText)
	if max <= 0 || total <= max {
		return oldText, newText, false
	}
	oldLimit := max * len(oldText) / total
	newLimit := max - oldLimit
	oldText, _ = truncateText(oldText, oldLimit)
	newText, _ = truncateText(newText, newLimit)
	return oldText, newText, true
}

// truncateText cuts s to at most max bytes on a rune boundary and appends TruncationMarker
func truncateText(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncationMarker, true
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
