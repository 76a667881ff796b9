package datastore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackends(t *testing.T) map[string]KVStore {
	t.Helper()
	fsStore, err := NewFileKVStore(filepath.Join(t.TempDir(), "files"), zerolog.Nop())
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteKVStore(filepath.Join(t.TempDir(), "db", "kv.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]KVStore{"filesystem": fsStore, "sqlite": sqliteStore}
}

func TestKVStore_Backends(t *testing.T) {
	ctx := context.Background()

	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "abc/content.js")
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrNotFound)
			var storeErr *common.StoreIOError
			assert.ErrorAs(t, err, &storeErr)

			exists, err := store.Exists(ctx, "abc/content.js")
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, store.Put(ctx, "abc/content.js", []byte("v1")))
			require.NoError(t, store.Put(ctx, "abc/content.js", []byte("v2")))

			got, err := store.Get(ctx, "abc/content.js")
			require.NoError(t, err)
			assert.Equal(t, "v2", string(got))

			stored, err := store.PutIfAbsent(ctx, "abc/summary.json", []byte("first"))
			require.NoError(t, err)
			assert.True(t, stored)

			stored, err = store.PutIfAbsent(ctx, "abc/summary.json", []byte("second"))
			require.NoError(t, err)
			assert.False(t, stored)

			got, err = store.Get(ctx, "abc/summary.json")
			require.NoError(t, err)
			assert.Equal(t, "first", string(got))

			exists, err = store.Exists(ctx, "abc/summary.json")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestFileKVStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewFileKVStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	for _, key := range []string{"", "../outside", "/etc/passwd"} {
		err := store.Put(context.Background(), key, []byte("x"))
		assert.ErrorIs(t, err, common.ErrInvalidInput, "key %q", key)
	}
}

func TestNewKVStore_UnknownBackend(t *testing.T) {
	cfg := config.NewDefaultStorageConfig()
	cfg.Backend = "redis"

	_, err := NewKVStore(cfg, zerolog.Nop())
	assert.Error(t, err)
}
