package datastore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteKVStore keeps every key as a row of a single kv table.
type SQLiteKVStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// openSQLite opens (and creates the directory of) a SQLite database file
func openSQLite(path string, logger zerolog.Logger) (*sql.DB, error) {
	if path == "" {
		return nil, common.NewValidationError("sqlite_path", path, "sqlite path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error().Err(err).Str("directory", dir).Msg("Failed to create database directory")
			return nil, common.NewStoreIOError("open", path, err)
		}
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, common.NewStoreIOError("open", path, err)
	}
	// One connection serializes writers from this process.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteKVStore opens the database and ensures the kv table exists
func NewSQLiteKVStore(path string, logger zerolog.Logger) (*SQLiteKVStore, error) {
	logger = logger.With().Str("component", "SQLiteKVStore").Logger()
	db, err := openSQLite(path, logger)
	if err != nil {
		return nil, err
	}
	store := &SQLiteKVStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("SQLite storage initialized")
	return store, nil
}

func (s *SQLiteKVStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize kv schema")
		return common.NewStoreIOError("init", "kv", err)
	}
	return nil
}

// Get reads the value stored under key
func (s *SQLiteKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(key)
		}
		return nil, common.NewStoreIOError("get", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value
func (s *SQLiteKVStore) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return common.NewStoreIOError("put", key, err)
	}
	return nil
}

// PutIfAbsent stores value only when key is unused
func (s *SQLiteKVStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	query := `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO NOTHING`
	result, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		return false, common.NewStoreIOError("put", key, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, common.NewStoreIOError("put", key, err)
	}
	return n == 1, nil
}

// Exists reports whether key has a value
func (s *SQLiteKVStore) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM kv WHERE key = ?`, key).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, common.NewStoreIOError("exists", key, err)
	}
	return true, nil
}

// Close closes the database connection.
func (s *SQLiteKVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
