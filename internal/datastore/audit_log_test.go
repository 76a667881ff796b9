package datastore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_RecordRun(t *testing.T) {
	ctx := context.Background()
	audit, err := NewAuditLog(filepath.Join(t.TempDir(), "audit.db"), zerolog.Nop())
	require.NoError(t, err)
	defer audit.Close()

	start := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	report := &models.RunReport{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		Results: []models.TargetResult{
			{URL: "https://a.example/app.js", Outcome: models.OutcomeNew, Notifications: []models.DeliveryResult{
				{Channel: "telegram", Success: true, SentAt: start.Add(10 * time.Second)},
			}},
			{URL: "https://b.example/app.js", Outcome: models.OutcomeChanged, Notifications: []models.DeliveryResult{
				{Channel: "telegram", Success: true},
				{Channel: "slack", Success: false, Err: errors.New("boom"), Error: "boom"},
			}},
			{URL: "https://c.example/app.js", Outcome: models.OutcomeUnchanged},
			{URL: "https://d.example/app.js", Outcome: models.OutcomeFailed},
		},
	}

	require.NoError(t, audit.RecordRun(ctx, report))

	runs, err := audit.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, 4, runs[0].Total)
	assert.Equal(t, 1, runs[0].New)
	assert.Equal(t, 1, runs[0].Changed)
	assert.Equal(t, 1, runs[0].Unchanged)
	assert.Equal(t, 1, runs[0].Failed)

	records, err := audit.NotificationsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, models.EventNewFile, records[0].Kind)
	assert.Equal(t, models.EventChange, records[1].Kind)
	assert.False(t, records[2].Success)
	assert.Equal(t, "boom", records[2].Error)
	assert.Equal(t, "slack", records[2].Channel)
}

func TestNotificationRecords_DefaultsSentAt(t *testing.T) {
	finished := time.Date(2026, 4, 1, 8, 1, 0, 0, time.UTC)
	report := &models.RunReport{
		RunID:      "r",
		FinishedAt: finished,
		Results: []models.TargetResult{{
			URL:           "u",
			Outcome:       models.OutcomeChanged,
			Notifications: []models.DeliveryResult{{Channel: "discord", Success: true}},
		}},
	}

	records := NotificationRecords(report)
	require.Len(t, records, 1)
	assert.Equal(t, finished, records[0].SentAt)
}
