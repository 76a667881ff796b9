package metrics

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aleister1102/jsmon/internal/models"
)

// Recorder bundles the collectors of one process
type Recorder struct {
	registry *prometheus.Registry

	TargetsTotal       *prometheus.CounterVec
	AIRequestsTotal    *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	RunDurationSec     prometheus.Histogram
	LastRunTimestamp   prometheus.Gauge
	ResidentMemory     prometheus.Gauge
}

// New creates a Recorder and registers its collectors on registry.
// A nil registry gets a fresh one.
func New(registry *prometheus.Registry) *Recorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry: registry,
		TargetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jsmon_targets_total",
			Help: "Targets processed, by outcome.",
		}, []string{"outcome"}),
		AIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jsmon_ai_requests_total",
			Help: "Model calls, by operation and status.",
		}, []string{"operation", "status"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jsmon_notifications_total",
			Help: "Notification deliveries, by channel and status.",
		}, []string{"channel", "status"}),
		RunDurationSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jsmon_run_duration_seconds",
			Help:    "Wall-clock duration of monitoring runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jsmon_last_run_timestamp_seconds",
			Help: "Unix time at which the last run finished.",
		}),
		ResidentMemory: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jsmon_resident_memory_bytes",
			Help: "Resident set size sampled at the end of the last run.",
		}),
	}

	registry.MustRegister(
		r.TargetsTotal,
		r.AIRequestsTotal,
		r.NotificationsTotal,
		r.RunDurationSec,
		r.LastRunTimestamp,
		r.ResidentMemory,
	)
	return r
}

// Registry returns the registry the collectors live on
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveAIRequest(operation, status string) {
	r.AIRequestsTotal.WithLabelValues(operation, status).Inc()
}

func (r *Recorder) ObserveNotification(channel string, success bool) {
	r.NotificationsTotal.WithLabelValues(channel, statusLabel(success)).Inc()
}

// ObserveRun records the per-target outcomes and timing of a finished run
func (r *Recorder) ObserveRun(report *models.RunReport) {
	if report == nil {
		return
	}
	for _, res := range report.Results {
		r.TargetsTotal.WithLabelValues(string(res.Outcome)).Inc()
	}
	r.RunDurationSec.Observe(report.Duration().Seconds())
	if !report.FinishedAt.IsZero() {
		r.LastRunTimestamp.Set(float64(report.FinishedAt.Unix()))
	}
}

// ObserveMemory records a resident set size sample
func (r *Recorder) ObserveMemory(rssBytes uint64) {
	r.ResidentMemory.Set(float64(rssBytes))
}

// WriteTextfile writes the registry for the node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
