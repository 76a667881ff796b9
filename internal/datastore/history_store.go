package datastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

const historyDataDir = "history"

// HistoryLog receives one row per newly persisted version
type HistoryLog interface {
	Append(ctx context.Context, record models.VersionHistoryRecord) error
	Records(ctx context.Context, url string) ([]models.VersionHistoryRecord, error)
}

// ParquetHistoryStore keeps one Parquet file of version rows per target URL.
// Appends rewrite the whole file, which stays small for a single target.
type ParquetHistoryStore struct {
	basePath string
	codec    string
	hasher   *URLHashGenerator
	logger   zerolog.Logger
	mu       sync.Mutex
}

// NewParquetHistoryStore creates the history directory below cfg.ParquetBasePath
func NewParquetHistoryStore(cfg config.StorageConfig, logger zerolog.Logger) (*ParquetHistoryStore, error) {
	basePath := filepath.Join(cfg.ParquetBasePath, historyDataDir)
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, common.NewStoreIOError("init", basePath, err)
	}
	return &ParquetHistoryStore{
		basePath: basePath,
		codec:    cfg.CompressionCodec,
		hasher:   NewURLHashGenerator(16),
		logger:   logger.With().Str("component", "ParquetHistoryStore").Logger(),
	}, nil
}

func (s *ParquetHistoryStore) filePath(url string) string {
	return filepath.Join(s.basePath, s.hasher.GenerateHash(url)+".parquet")
}

// Append adds a row to the target's history file
func (s *ParquetHistoryStore) Append(ctx context.Context, record models.VersionHistoryRecord) error {
	if err := ctx.Err(); err != nil {
		return common.NewStoreIOError("append", record.URL, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.filePath(record.URL)
	existing, err := s.readRecords(path)
	if err != nil {
		// an unreadable file is left as is
		return common.NewStoreIOError("append", record.URL, err)
	}

	for _, r := range existing {
		if r.Fingerprint == record.Fingerprint && r.CapturedAt == record.CapturedAt {
			return nil
		}
	}

	if err := s.writeRecords(path, append(existing, record)); err != nil {
		return common.NewStoreIOError("append", record.URL, err)
	}
	s.logger.Debug().Str("url", record.URL).Str("fingerprint", record.Fingerprint).Int("total_records", len(existing)+1).Msg("History record stored")
	return nil
}

// Records returns the target's rows ordered by capture time
func (s *ParquetHistoryStore) Records(ctx context.Context, url string) ([]models.VersionHistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.NewStoreIOError("read", url, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords(s.filePath(url))
	if err != nil {
		return nil, common.NewStoreIOError("read", url, err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].CapturedAt < records[j].CapturedAt })
	return records, nil
}

func (s *ParquetHistoryStore) compressionOption() parquet.WriterOption {
	switch strings.ToLower(s.codec) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "zstd", "":
		return parquet.Compression(&parquet.Zstd)
	case "none", "uncompressed":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		s.logger.Warn().Str("codec", s.codec).Msg("Unsupported compression codec, defaulting to zstd")
		return parquet.Compression(&parquet.Zstd)
	}
}

func (s *ParquetHistoryStore) writeRecords(path string, records []models.VersionHistoryRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.parquet")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	writer := parquet.NewGenericWriter[models.VersionHistoryRecord](tmp, s.compressionOption())
	if _, err := writer.Write(records); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (s *ParquetHistoryStore) readRecords(path string) ([]models.VersionHistoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file '%s': %w", path, err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat history file '%s': %w", path, err)
	}
	if stat.Size() == 0 {
		return nil, nil
	}

	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file '%s': %w", path, err)
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	var records []models.VersionHistoryRecord
	for {
		var record models.VersionHistoryRecord
		if err := reader.Read(&record); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading record from parquet file '%s': %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}
