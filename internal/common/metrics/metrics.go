// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_reminders_sent_total",
			Help: "Call reminders delivered to the notifier, by stage key",
		},
		[]string{"stage"},
	)

	RemindersFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_reminders_failed_total",
			Help: "Call reminders the notifier rejected, by stage key",
		},
		[]string{"stage"},
	)

	ReminderStageDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_reminder_stage_degraded_total",
			Help: "Stages whose directory query failed or was skipped",
		},
		[]string{"stage"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "funnel_sweep_duration_seconds",
			Help:    "Wall time of a full reminder sweep",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_submissions_total",
			Help: "Accepted quiz submissions by classified outcome",
		},
		[]string{"outcome"},
	)

	DirectoryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_directory_requests_total",
			Help: "Contact directory calls by operation and HTTP status",
		},
		[]string{"operation", "status"},
	)
)
