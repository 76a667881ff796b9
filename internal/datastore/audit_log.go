package datastore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

// RunSummary is one row of the runs table
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	New        int
	Changed    int
	Unchanged  int
	Failed     int
}

// AuditLog records finished runs and every delivery attempt in SQLite.
type AuditLog struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewAuditLog opens the database and ensures the schema is set up.
func NewAuditLog(path string, logger zerolog.Logger) (*AuditLog, error) {
	logger = logger.With().Str("component", "AuditLog").Logger()
	db, err := openSQLite(path, logger)
	if err != nil {
		return nil, err
	}
	a := &AuditLog{db: db, logger: logger}
	if err := a.InitSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// InitSchema creates the runs and notifications tables if they don't already exist.
func (a *AuditLog) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		new INTEGER NOT NULL DEFAULT 0,
		changed INTEGER NOT NULL DEFAULT 0,
		unchanged INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		url TEXT NOT NULL,
		channel TEXT NOT NULL,
		kind TEXT NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		sent_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_run ON notifications(run_id);
	`
	if _, err := a.db.Exec(query); err != nil {
		a.logger.Error().Err(err).Msg("Failed to initialize audit schema")
		return common.NewStoreIOError("init", "audit", err)
	}
	return nil
}

// NotificationRecords flattens the delivery results of a report
func NotificationRecords(report *models.RunReport) []models.NotificationRecord {
	var records []models.NotificationRecord
	for _, result := range report.Results {
		kind := models.EventChange
		if result.Outcome == models.OutcomeNew {
			kind = models.EventNewFile
		}
		for _, d := range result.Notifications {
			sentAt := d.SentAt
			if sentAt.IsZero() {
				sentAt = report.FinishedAt
			}
			records = append(records, models.NotificationRecord{
				RunID:   report.RunID,
				URL:     result.URL,
				Channel: d.Channel,
				Kind:    kind,
				Success: d.Success,
				Error:   d.Error,
				SentAt:  sentAt,
			})
		}
	}
	return records
}

// RecordRun stores the run counters and its notification records in one transaction
func (a *AuditLog) RecordRun(ctx context.Context, report *models.RunReport) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewStoreIOError("record run", report.RunID, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, started_at, finished_at, total, new, changed, unchanged, failed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.StartedAt, report.FinishedAt, len(report.Results),
		report.Count(models.OutcomeNew), report.Count(models.OutcomeChanged),
		report.Count(models.OutcomeUnchanged), report.Count(models.OutcomeFailed))
	if err != nil {
		return common.NewStoreIOError("record run", report.RunID, err)
	}

	records := NotificationRecords(report)
	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (run_id, url, channel, kind, success, error, sent_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, rec.URL, rec.Channel, string(rec.Kind), rec.Success,
			sql.NullString{String: rec.Error, Valid: rec.Error != ""}, rec.SentAt)
		if err != nil {
			return common.NewStoreIOError("record notification", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return common.NewStoreIOError("record run", report.RunID, err)
	}
	a.logger.Debug().Str("run_id", report.RunID).Int("notifications", len(records)).Msg("Run recorded in audit log")
	return nil
}

// RecentRuns returns the latest runs, newest first
func (a *AuditLog) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, total, new, changed, unchanged, failed FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.NewStoreIOError("query", "runs", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.Total, &r.New, &r.Changed, &r.Unchanged, &r.Failed); err != nil {
			return nil, common.NewStoreIOError("scan", "runs", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreIOError("query", "runs", err)
	}
	return runs, nil
}

// NotificationsForRun returns the delivery records of one run
func (a *AuditLog) NotificationsForRun(ctx context.Context, runID string) ([]models.NotificationRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT run_id, url, channel, kind, success, error, sent_at FROM notifications WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, common.NewStoreIOError("query", "notifications", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.NotificationRecord
	for rows.Next() {
		var (
			rec    models.NotificationRecord
			kind   string
			errMsg sql.NullString
		)
		if err := rows.Scan(&rec.RunID, &rec.URL, &rec.Channel, &kind, &rec.Success, &errMsg, &rec.SentAt); err != nil {
			return nil, common.NewStoreIOError("scan", "notifications", err)
		}
		rec.Kind = models.EventKind(kind)
		rec.Error = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreIOError("query", "notifications", err)
	}
	return records, nil
}

// Close closes the database connection.
func (a *AuditLog) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
