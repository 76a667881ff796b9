package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTargetLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "https://b.example.com/app.js\n# comment\nHTTP://C.example.com/x.js\n")
	writeFile(t, filepath.Join(dir, "a.txt"), "  https://a.example.com/main.js  \nnot-a-url\nftp://example.com/x.js\nhttps://b.example.com/app.js\n")
	writeFile(t, filepath.Join(dir, ".hidden"), "https://hidden.example.com/x.js\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested", "c.txt"), "https://nested.example.com/x.js\n")

	targets, err := NewTargetLoader(zerolog.Nop()).LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://a.example.com/main.js",
		"https://b.example.com/app.js",
		"HTTP://C.example.com/x.js",
	}, targets)
}

func TestTargetLoader_MissingDir(t *testing.T) {
	targets, err := NewTargetLoader(zerolog.Nop()).LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Empty(t, targets)
}

func TestTargetLoader_LoadFileMissing(t *testing.T) {
	_, err := NewTargetLoader(zerolog.Nop()).LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Dedupe(nil))
}
