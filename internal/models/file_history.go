package models

import (
	"errors"
	"time"
)

// ErrRecordNotFound is returned when a record is not found in the store.
var ErrRecordNotFound = errors.New("record not found")

// VersionHistoryRecord is one row of the columnar version history log.
type VersionHistoryRecord struct {
	URL         string `parquet:"url"`
	Fingerprint string `parquet:"fingerprint"`
	CapturedAt  int64  `parquet:"captured_at"` // unix millis
	Size        int64  `parquet:"size"`
}

// Time returns the capture time of the record.
func (r VersionHistoryRecord) Time() time.Time {
	return time.UnixMilli(r.CapturedAt)
}

// NewVersionHistoryRecord converts a captured version to a history row.
func NewVersionHistoryRecord(v Version) VersionHistoryRecord {
	return VersionHistoryRecord{
		URL:         v.URL,
		Fingerprint: v.Fingerprint,
		CapturedAt:  v.CapturedAt.UnixMilli(),
		Size:        int64(v.Size),
	}
}
