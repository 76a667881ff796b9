package monitor

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/rs/zerolog"
)

var targetLinePattern = regexp.MustCompile(`(?i)^https?://`)

// TargetLoader collects target URLs from operator-supplied lists
type TargetLoader struct {
	logger zerolog.Logger
}

// NewTargetLoader creates a new TargetLoader
func NewTargetLoader(logger zerolog.Logger) *TargetLoader {
	return &TargetLoader{logger: logger.With().Str("component", "TargetLoader").Logger()}
}

// LoadDir reads every non-hidden regular file in dir, in name order.
// A missing directory yields no targets.
func (l *TargetLoader) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn().Str("dir", dir).Msg("Targets directory does not exist")
			return nil, nil
		}
		return nil, common.WrapErrorf(err, "failed to read targets directory '%s'", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var targets []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.Type().IsRegular() {
			continue
		}
		urls, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			l.logger.Error().Err(err).Str("file", entry.Name()).Msg("Failed to read targets file, skipping")
			continue
		}
		targets = append(targets, urls...)
	}
	return Dedupe(targets), nil
}

// LoadFile reads one target list. Lines not starting with http:// or https:// are ignored.
func (l *TargetLoader) LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to open targets file '%s'", path)
	}
	defer func() { _ = f.Close() }()

	var targets []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if targetLinePattern.MatchString(line) {
			targets = append(targets, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, common.WrapErrorf(err, "failed to scan targets file '%s'", path)
	}
	l.logger.Debug().Str("file", path).Int("count", len(targets)).Msg("Targets loaded")
	return Dedupe(targets), nil
}

// Dedupe removes repeated URLs, keeping first occurrences in order
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
