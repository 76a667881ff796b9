package datastore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/rs/zerolog"
)

// FileKVStore keeps every key as a file below basePath.
// Writes go to a temporary file first and are renamed into place.
type FileKVStore struct {
	basePath string
	logger   zerolog.Logger
}

// NewFileKVStore creates the base directory if needed
func NewFileKVStore(basePath string, logger zerolog.Logger) (*FileKVStore, error) {
	if basePath == "" {
		return nil, common.NewValidationError("base_path", basePath, "storage base path cannot be empty")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, common.NewStoreIOError("init", basePath, err)
	}
	store := &FileKVStore{
		basePath: basePath,
		logger:   logger.With().Str("component", "FileKVStore").Logger(),
	}
	store.logger.Debug().Str("path", basePath).Msg("Storage directory ensured")
	return store, nil
}

func (s *FileKVStore) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid key '%s'", common.ErrInvalidInput, key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// Get reads the value stored under key
func (s *FileKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.NewStoreIOError("get", key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return nil, common.NewStoreIOError("get", key, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(key)
		}
		return nil, common.NewStoreIOError("get", key, err)
	}
	return data, nil
}

// Put stores value under key, replacing any previous value
func (s *FileKVStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return common.NewStoreIOError("put", key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return common.NewStoreIOError("put", key, err)
	}
	tmp, err := s.writeTemp(p, value)
	if err != nil {
		return common.NewStoreIOError("put", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return common.NewStoreIOError("put", key, err)
	}
	return nil
}

// PutIfAbsent hard-links a fully written temporary file into place, so a
// concurrent reader never sees a partial value and an existing key is never replaced.
func (s *FileKVStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, common.NewStoreIOError("put", key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return false, common.NewStoreIOError("put", key, err)
	}
	if _, err := os.Stat(p); err == nil {
		return false, nil
	}

	tmp, err := s.writeTemp(p, value)
	if err != nil {
		return false, common.NewStoreIOError("put", key, err)
	}
	defer func() { _ = os.Remove(tmp) }()

	if err := os.Link(tmp, p); err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		// Filesystems without hard links fall back to rename.
		s.logger.Debug().Err(err).Str("key", key).Msg("Hard link failed, falling back to rename")
		if err := os.Rename(tmp, p); err != nil {
			return false, common.NewStoreIOError("put", key, err)
		}
	}
	return true, nil
}

// Exists reports whether key has a value
func (s *FileKVStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, common.NewStoreIOError("exists", key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return false, common.NewStoreIOError("exists", key, err)
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, common.NewStoreIOError("exists", key, err)
	}
	return !info.IsDir(), nil
}

// Close is a no-op for the filesystem backend
func (s *FileKVStore) Close() error {
	return nil
}

func (s *FileKVStore) writeTemp(target string, value []byte) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(target)+"-*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(value); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
