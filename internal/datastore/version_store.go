package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

const (
	contentFile  = "content.js"
	metadataFile = "metadata.json"
	summaryFile  = "summary.json"
	analysesDir  = "analyses"
	targetsDir   = "targets"
)

// VersionStore persists content-addressed versions, per-target pointers and
// the write-once summaries and analyses attached to them.
type VersionStore struct {
	kv      KVStore
	history HistoryLog
	hasher  *URLHashGenerator
	logger  zerolog.Logger
}

// NewVersionStore wraps kv. history may be nil.
func NewVersionStore(kv KVStore, history HistoryLog, logger zerolog.Logger) *VersionStore {
	return &VersionStore{
		kv:      kv,
		history: history,
		hasher:  NewURLHashGenerator(16),
		logger:  logger.With().Str("component", "VersionStore").Logger(),
	}
}

func contentKey(fp string) string  { return fp + "/" + contentFile }
func metadataKey(fp string) string { return fp + "/" + metadataFile }
func summaryKey(fp string) string  { return fp + "/" + summaryFile }

func analysisKey(t models.Transition) string {
	return t.Current + "/" + analysesDir + "/" + t.Previous + ".json"
}

func (s *VersionStore) targetKey(url string) string {
	return targetsDir + "/" + s.hasher.GenerateHash(url) + ".json"
}

// Target returns the pointer record of url, or nil when it was never observed
func (s *VersionStore) Target(ctx context.Context, url string) (*models.TargetPointer, error) {
	data, err := s.kv.Get(ctx, s.targetKey(url))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var pointer models.TargetPointer
	if err := json.Unmarshal(data, &pointer); err != nil {
		return nil, common.NewStoreIOError("decode", s.targetKey(url), err)
	}
	return &pointer, nil
}

// PreviousFingerprint returns the latest fingerprint recorded for url
func (s *VersionStore) PreviousFingerprint(ctx context.Context, url string) (string, bool, error) {
	pointer, err := s.Target(ctx, url)
	if err != nil || pointer == nil || pointer.Latest == "" {
		return "", false, err
	}
	return pointer.Latest, true, nil
}

// InitialFingerprint returns the first fingerprint recorded for url
func (s *VersionStore) InitialFingerprint(ctx context.Context, url string) (string, bool, error) {
	pointer, err := s.Target(ctx, url)
	if err != nil || pointer.Initial() == "" {
		return "", false, err
	}
	return pointer.Initial(), true, nil
}

// History returns the fingerprints of url in capture order
func (s *VersionStore) History(ctx context.Context, url string) ([]string, error) {
	pointer, err := s.Target(ctx, url)
	if err != nil || pointer == nil {
		return nil, err
	}
	return append([]string(nil), pointer.History...), nil
}

// HasVersion reports whether content for fp is stored. A stored version is the
// precondition for a summary cache hit.
func (s *VersionStore) HasVersion(ctx context.Context, fp string) (bool, error) {
	return s.kv.Exists(ctx, contentKey(fp))
}

// PersistVersion stores the content once and moves the target pointer to it.
func (s *VersionStore) PersistVersion(ctx context.Context, v models.Version) error {
	if _, err := s.kv.PutIfAbsent(ctx, contentKey(v.Fingerprint), v.Content); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(models.VersionMetadata{
		Fingerprint: v.Fingerprint,
		URL:         v.URL,
		CapturedAt:  v.CapturedAt,
		Size:        v.Size,
	}, "", "  ")
	if err != nil {
		return common.NewStoreIOError("encode", metadataKey(v.Fingerprint), err)
	}
	if _, err := s.kv.PutIfAbsent(ctx, metadataKey(v.Fingerprint), meta); err != nil {
		return err
	}

	pointer, err := s.Target(ctx, v.URL)
	if err != nil {
		return err
	}
	if pointer == nil {
		pointer = &models.TargetPointer{URL: v.URL, FirstSeen: v.CapturedAt}
	}

	appended := false
	if n := len(pointer.History); n == 0 || pointer.History[n-1] != v.Fingerprint {
		pointer.History = append(pointer.History, v.Fingerprint)
		appended = true
	}
	pointer.Latest = v.Fingerprint
	pointer.LastSeen = v.CapturedAt

	if err := s.putTarget(ctx, pointer); err != nil {
		return err
	}

	if appended && s.history != nil {
		if err := s.history.Append(ctx, models.NewVersionHistoryRecord(v)); err != nil {
			s.logger.Warn().Err(err).Str("url", v.URL).Msg("Failed to append version history record")
		}
	}

	s.logger.Debug().Str("url", v.URL).Str("fingerprint", v.Fingerprint).Int("history_len", len(pointer.History)).Msg("Version persisted")
	return nil
}

// TouchTarget refreshes the last-seen time of an already known target
func (s *VersionStore) TouchTarget(ctx context.Context, url string, now time.Time) error {
	pointer, err := s.Target(ctx, url)
	if err != nil {
		return err
	}
	if pointer == nil {
		return common.NewStoreIOError("touch", s.targetKey(url), common.ErrNotFound)
	}
	pointer.LastSeen = now
	return s.putTarget(ctx, pointer)
}

func (s *VersionStore) putTarget(ctx context.Context, pointer *models.TargetPointer) error {
	data, err := json.MarshalIndent(pointer, "", "  ")
	if err != nil {
		return common.NewStoreIOError("encode", s.targetKey(pointer.URL), err)
	}
	return s.kv.Put(ctx, s.targetKey(pointer.URL), data)
}

// LoadContent returns the stored bytes of fp
func (s *VersionStore) LoadContent(ctx context.Context, fp string) ([]byte, error) {
	return s.kv.Get(ctx, contentKey(fp))
}

// LoadSummary returns the summary of fp, or nil when none was recorded
func (s *VersionStore) LoadSummary(ctx context.Context, fp string) (*models.Summary, error) {
	var summary models.Summary
	found, err := s.loadJSON(ctx, summaryKey(fp), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

// LoadAnalysis returns the analysis of t, or nil when none was recorded
func (s *VersionStore) LoadAnalysis(ctx context.Context, t models.Transition) (*models.ChangeAnalysis, error) {
	var analysis models.ChangeAnalysis
	found, err := s.loadJSON(ctx, analysisKey(t), &analysis)
	if err != nil || !found {
		return nil, err
	}
	return &analysis, nil
}

// PersistSummary stores the summary of fp. A second write for the same fp
// fails with *common.AlreadyExistsError.
func (s *VersionStore) PersistSummary(ctx context.Context, fp string, summary models.Summary) error {
	return s.putOnce(ctx, "summary", summaryKey(fp), summary)
}

// PersistAnalysis stores the analysis of t, write-once like PersistSummary.
func (s *VersionStore) PersistAnalysis(ctx context.Context, t models.Transition, analysis models.ChangeAnalysis) error {
	return s.putOnce(ctx, "analysis", analysisKey(t), analysis)
}

func (s *VersionStore) putOnce(ctx context.Context, kind, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return common.NewStoreIOError("encode", key, err)
	}
	stored, err := s.kv.PutIfAbsent(ctx, key, data)
	if err != nil {
		return err
	}
	if !stored {
		return &common.AlreadyExistsError{Kind: kind, Key: key}
	}
	return nil
}

func (s *VersionStore) loadJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, common.NewStoreIOError("decode", key, err)
	}
	return true, nil
}

// HistoryRecords returns the columnar history rows of url when the history log is enabled
func (s *VersionStore) HistoryRecords(ctx context.Context, url string) ([]models.VersionHistoryRecord, error) {
	if s.history == nil {
		return nil, common.NewError("version history log is disabled")
	}
	return s.history.Records(ctx, url)
}
