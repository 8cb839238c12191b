package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotelbooking"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)

	availabilityConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_conflicts_total",
			Help:      "Rejected writes because the room was already taken, by operation.",
		},
		[]string{"operation"},
	)

	changeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_requests_total",
			Help:      "Change requests submitted by type.",
		},
		[]string{"type"},
	)

	changeRequestDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_request_decisions_total",
			Help:      "Change request decisions by outcome.",
		},
		[]string{"outcome"},
	)

	cascadeCancellations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_cancellations_total",
			Help:      "Bookings force-cancelled by an approved change request.",
		},
	)

	syncTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_sync_tasks_total",
			Help:      "Sheets sync tasks by final status.",
		},
		[]string{"status"},
	)

	backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_backups_total",
			Help:      "Database backups by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingsCreated,
			availabilityConflicts,
			changeRequests,
			changeRequestDecisions,
			cascadeCancellations,
			syncTasks,
			backups,
		)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, code string, dur time.Duration) {
	httpRequests.WithLabelValues(route, code).Inc()
	httpDuration.WithLabelValues(route).Observe(dur.Seconds())
}

func IncBookingsCreated() {
	bookingsCreated.Inc()
}

func IncConflict(operation string) {
	availabilityConflicts.WithLabelValues(operation).Inc()
}

func IncChangeRequest(requestType string) {
	changeRequests.WithLabelValues(requestType).Inc()
}

func IncDecision(outcome string) {
	changeRequestDecisions.WithLabelValues(outcome).Inc()
}

func AddCascadeCancellations(n int) {
	cascadeCancellations.Add(float64(n))
}

func IncSyncTask(status string) {
	syncTasks.WithLabelValues(status).Inc()
}

func IncBackup(result string) {
	backups.WithLabelValues(result).Inc()
}
