// Package metrics exposes Prometheus instrumentation for the sync engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insta_sync_attempts_total",
			Help: "Finished sync attempts by category and terminal status",
		},
		[]string{"category", "status"},
	)

	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insta_sync_records_total",
			Help: "Records handled by sync attempts",
		},
		[]string{"category", "result"}, // "created", "updated", "failed"
	)

	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insta_api_calls_total",
			Help: "Requests made to the external Instagram API",
		},
		[]string{"category"},
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insta_sync_runs_total",
			Help: "Batch runs by outcome",
		},
		[]string{"outcome"}, // "completed", "partial_failure", "failed", "skipped"
	)

	SyncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insta_sync_run_duration_seconds",
			Help:    "Wall time of batch runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	OrphanedAttempts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insta_sync_orphaned_attempts",
			Help: "Attempts left running past the orphan threshold at last check",
		},
	)
)
