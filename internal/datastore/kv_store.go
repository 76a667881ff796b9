package datastore

import (
	"context"
	"strings"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/rs/zerolog"
)

// KVStore is the byte-oriented key/value layer under VersionStore.
// Missing keys are reported as a *common.StoreIOError wrapping common.ErrNotFound.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutIfAbsent stores value only when key is unused and reports whether it did.
	PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// NewKVStore opens the backend selected by cfg.Backend
func NewKVStore(cfg config.StorageConfig, logger zerolog.Logger) (KVStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "filesystem":
		return NewFileKVStore(cfg.BasePath, logger)
	case "sqlite":
		return NewSQLiteKVStore(cfg.SQLitePath, logger)
	default:
		return nil, common.NewValidationError("storage_config.backend", cfg.Backend, "unsupported storage backend")
	}
}

func notFound(key string) error {
	return common.NewStoreIOError("get", key, common.ErrNotFound)
}
