package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StringList
		wantErr  bool
	}{
		{name: "array", input: `["a","b"]`, expected: StringList{"a", "b"}},
		{name: "single string", input: `"only one"`, expected: StringList{"only one"}},
		{name: "empty string", input: `""`, expected: nil},
		{name: "null", input: `null`, expected: nil},
		{name: "number", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTargetPointer_Initial(t *testing.T) {
	var nilPointer *TargetPointer
	assert.Equal(t, "", nilPointer.Initial())
	assert.Equal(t, "", (&TargetPointer{}).Initial())
	assert.Equal(t, "f1", (&TargetPointer{History: []string{"f1", "f2"}}).Initial())
}

func TestChangeAnalysis_LowConfidence(t *testing.T) {
	assert.True(t, (&ChangeAnalysis{Confidence: "LOW"}).LowConfidence())
	assert.False(t, (&ChangeAnalysis{Confidence: "HIGH"}).LowConfidence())
	assert.False(t, (&ChangeAnalysis{}).LowConfidence())
}

func TestRunReport_Counts(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report := RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Results: []TargetResult{
			{Outcome: OutcomeNew},
			{Outcome: OutcomeChanged},
			{Outcome: OutcomeChanged},
			{Outcome: OutcomeFailed},
		},
	}

	assert.Equal(t, 1, report.Count(OutcomeNew))
	assert.Equal(t, 2, report.Count(OutcomeChanged))
	assert.Equal(t, 0, report.Count(OutcomeUnchanged))
	assert.Equal(t, 90*time.Second, report.Duration())
}
