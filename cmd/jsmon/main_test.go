package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/jsmon/internal/config"
)

func TestParseFlags(t *testing.T) {
	flags := parseFlags(flag.NewFlagSet("jsmon", flag.ContinueOnError), []string{
		"-c", "cfg.yaml",
		"-t", "targets.txt",
		"-url", "https://a.example.com/a.js",
		"-u", "https://b.example.com/b.js",
		"-dry-run",
	})
	assert.Equal(t, "cfg.yaml", flags.GlobalConfigFile)
	assert.Equal(t, "targets.txt", flags.TargetsFile)
	assert.Equal(t, []string{"https://a.example.com/a.js", "https://b.example.com/b.js"}, flags.URLs)
	assert.True(t, flags.DryRun)
	assert.Empty(t, flags.HistoryURL)
}

func TestParseFlags_LongFormWins(t *testing.T) {
	flags := parseFlags(flag.NewFlagSet("jsmon", flag.ContinueOnError), []string{"-config", "a.yaml", "-c", "b.yaml", "-history", "https://a.example.com/a.js"})
	assert.Equal(t, "a.yaml", flags.GlobalConfigFile)
	assert.Equal(t, "https://a.example.com/a.js", flags.HistoryURL)
}

func TestCollectTargets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "list.txt"), []byte("https://a.example.com/a.js\nhttps://b.example.com/b.js\n"), 0o644))

	mc := config.NewDefaultMonitorConfig()
	mc.TargetsDir = dir
	mc.InitialURLs = []string{"https://b.example.com/b.js", "https://c.example.com/c.js"}

	targets, err := collectTargets(mc, AppFlags{URLs: []string{"https://d.example.com/d.js", "not a url"}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://a.example.com/a.js",
		"https://b.example.com/b.js",
		"https://c.example.com/c.js",
		"https://d.example.com/d.js",
	}, targets)

	file := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(file, []byte("https://e.example.com/e.js\n"), 0o644))
	targets, err = collectTargets(mc, AppFlags{TargetsFile: file}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://e.example.com/e.js", "https://b.example.com/b.js", "https://c.example.com/c.js"}, targets)

	_, err = collectTargets(mc, AppFlags{TargetsFile: filepath.Join(dir, "missing.txt")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestCollectTargets_Empty(t *testing.T) {
	mc := config.NewDefaultMonitorConfig()
	mc.TargetsDir = filepath.Join(t.TempDir(), "none")
	targets, err := collectTargets(mc, AppFlags{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, targets)
}
