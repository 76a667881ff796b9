package models

import "time"

// Outcome is the terminal state a target reached during a run.
type Outcome string

const (
	OutcomeNew       Outcome = "new"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeChanged   Outcome = "changed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// TargetResult is what one target contributed to a run.
type TargetResult struct {
	URL                 string           `json:"url"`
	Outcome             Outcome          `json:"outcome"`
	Fingerprint         string           `json:"fingerprint,omitempty"`
	PreviousFingerprint string           `json:"previous_fingerprint,omitempty"`
	RiskLevel           RiskLevel        `json:"risk_level,omitempty"`
	Category            ChangeCategory   `json:"category,omitempty"`
	AnalysisAvailable   bool             `json:"analysis_available"`
	Recommendation      string           `json:"recommendation,omitempty"`
	Notifications       []DeliveryResult `json:"notifications,omitempty"`
	Err                 error            `json:"-"`
	Error               string           `json:"error,omitempty"`
	Duration            time.Duration    `json:"duration"`
}

// RunReport collects every target result of a single invocation.
type RunReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []TargetResult `json:"results"`
}

// Count returns the number of results with the given outcome.
func (r *RunReport) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Duration returns the wall-clock time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
