package datastore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetURL = "https://example.com/static/app.js"

func newTestVersionStore(t *testing.T) (*VersionStore, *ParquetHistoryStore) {
	t.Helper()
	cfg := config.NewDefaultStorageConfig()
	cfg.BasePath = filepath.Join(t.TempDir(), "monitored_files")
	cfg.ParquetBasePath = filepath.Join(t.TempDir(), "database")

	kv, err := NewKVStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	history, err := NewParquetHistoryStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	return NewVersionStore(kv, history, zerolog.Nop()), history
}

func version(fp, content string, at time.Time) models.Version {
	return models.Version{
		Fingerprint: fp,
		URL:         targetURL,
		Content:     []byte(content),
		CapturedAt:  at,
		Size:        len(content),
	}
}

func TestVersionStore_PreviousFingerprintLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestVersionStore(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, found, err := store.PreviousFingerprint(ctx, targetURL)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.PersistVersion(ctx, version("aaaa1111", "var a=1;", t0)))

	prev, found, err := store.PreviousFingerprint(ctx, targetURL)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "aaaa1111", prev)

	require.NoError(t, store.PersistVersion(ctx, version("bbbb2222", "var a=2;", t0.Add(time.Hour))))

	prev, _, err = store.PreviousFingerprint(ctx, targetURL)
	require.NoError(t, err)
	assert.Equal(t, "bbbb2222", prev)

	initial, found, err := store.InitialFingerprint(ctx, targetURL)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "aaaa1111", initial)

	history, err := store.History(ctx, targetURL)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa1111", "bbbb2222"}, history)

	content, err := store.LoadContent(ctx, "aaaa1111")
	require.NoError(t, err)
	assert.Equal(t, "var a=1;", string(content))

	has, err := store.HasVersion(ctx, "bbbb2222")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestVersionStore_PersistVersionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, history := newTestVersionStore(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.PersistVersion(ctx, version("aaaa1111", "var a=1;", t0)))
	require.NoError(t, store.PersistVersion(ctx, version("aaaa1111", "var a=1;", t0.Add(time.Minute))))

	fps, err := store.History(ctx, targetURL)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa1111"}, fps)

	pointer, err := store.Target(ctx, targetURL)
	require.NoError(t, err)
	assert.Equal(t, t0, pointer.FirstSeen.UTC())
	assert.Equal(t, t0.Add(time.Minute), pointer.LastSeen.UTC())

	records, err := history.Records(ctx, targetURL)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestVersionStore_TouchTarget(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestVersionStore(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := store.TouchTarget(ctx, targetURL, t0)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.PersistVersion(ctx, version("aaaa1111", "x", t0)))
	require.NoError(t, store.TouchTarget(ctx, targetURL, t0.Add(2*time.Hour)))

	pointer, err := store.Target(ctx, targetURL)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(2*time.Hour), pointer.LastSeen.UTC())
	assert.Equal(t, "aaaa1111", pointer.Latest)
}

func TestVersionStore_SummaryIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestVersionStore(t)

	missing, err := store.LoadSummary(ctx, "aaaa1111")
	require.NoError(t, err)
	assert.Nil(t, missing)

	summary := models.Summary{ConciseSummary: "first"}
	require.NoError(t, store.PersistSummary(ctx, "aaaa1111", summary))

	err = store.PersistSummary(ctx, "aaaa1111", models.Summary{ConciseSummary: "second"})
	require.Error(t, err)
	assert.True(t, common.IsAlreadyExists(err))

	loaded, err := store.LoadSummary(ctx, "aaaa1111")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "first", loaded.ConciseSummary)
}

func TestVersionStore_AnalysisIsKeyedByTransition(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestVersionStore(t)
	forward := models.Transition{Previous: "aaaa1111", Current: "bbbb2222"}
	backward := models.Transition{Previous: "bbbb2222", Current: "aaaa1111"}

	require.NoError(t, store.PersistAnalysis(ctx, forward, models.ChangeAnalysis{ShortSummary: "fwd", RiskLevel: models.RiskHigh}))
	assert.True(t, common.IsAlreadyExists(store.PersistAnalysis(ctx, forward, models.ChangeAnalysis{ShortSummary: "again"})))
	require.NoError(t, store.PersistAnalysis(ctx, backward, models.ChangeAnalysis{ShortSummary: "back", RiskLevel: models.RiskLow}))

	loaded, err := store.LoadAnalysis(ctx, forward)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "fwd", loaded.ShortSummary)
	assert.Equal(t, models.RiskHigh, loaded.RiskLevel)

	none, err := store.LoadAnalysis(ctx, models.Transition{Previous: "x", Current: "y"})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestVersionStore_SharedContentAcrossTargets(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestVersionStore(t)
	t0 := time.Now().UTC()

	v1 := version("cccc3333", "shared", t0)
	v2 := v1
	v2.URL = "https://cdn.example.com/app.js"

	require.NoError(t, store.PersistVersion(ctx, v1))
	require.NoError(t, store.PersistVersion(ctx, v2))

	for _, u := range []string{v1.URL, v2.URL} {
		fp, found, err := store.PreviousFingerprint(ctx, u)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "cccc3333", fp)
	}
}
