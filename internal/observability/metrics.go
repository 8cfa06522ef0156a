// Package observability owns process-wide Prometheus collectors and the logger factory.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trainingstats",
		Subsystem: "persistence",
		Name:      "last_workout_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout persisted.",
	})
	workoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainingstats",
		Subsystem: "workouts",
		Name:      "recorded_total",
		Help:      "Workouts accepted by the API, labeled by whether the request was an idempotent replay.",
	}, []string{"replay"})
	reportDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trainingstats",
		Subsystem: "analytics",
		Name:      "report_duration_seconds",
		Help:      "Time spent fetching a snapshot and computing a report.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"report"})
	dashboardCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainingstats",
		Subsystem: "analytics",
		Name:      "dashboard_cache_total",
		Help:      "Dashboard cache lookups, labeled by result (hit, miss).",
	}, []string{"result"})
	dashboardEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trainingstats",
		Subsystem: "analytics",
		Name:      "dashboard_cache_entries",
		Help:      "Dashboards currently held in the cache.",
	})
	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trainingstats",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
	httpPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingstats",
		Subsystem: "http",
		Name:      "handler_panics_total",
		Help:      "Panics recovered while serving requests.",
	})
)

func init() {
	prometheus.MustRegister(workoutPersistGauge, workoutsRecorded, reportDuration, dashboardCache, dashboardEntries, httpRequests, httpPanics)
}

// RecordWorkoutPersisted updates the persistence watermark gauge.
func RecordWorkoutPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutPersistGauge.Set(float64(ts.Unix()))
}

// RecordWorkoutAccepted counts an accepted workout request.
func RecordWorkoutAccepted(replay bool) {
	label := "false"
	if replay {
		label = "true"
	}
	workoutsRecorded.WithLabelValues(label).Inc()
}

// ObserveReport records how long a report took.
func ObserveReport(report string, started time.Time) {
	reportDuration.WithLabelValues(report).Observe(time.Since(started).Seconds())
}

// RecordCacheLookup counts a dashboard cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		dashboardCache.WithLabelValues("hit").Inc()
		return
	}
	dashboardCache.WithLabelValues("miss").Inc()
}

// SetDashboardCacheEntries publishes the current dashboard cache size.
func SetDashboardCacheEntries(n int64) {
	dashboardEntries.Set(float64(n))
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method string, code int, started time.Time) {
	httpRequests.WithLabelValues(method, strconv.Itoa(code)).Observe(time.Since(started).Seconds())
}

// RecordHandlerPanic counts a recovered handler panic.
func RecordHandlerPanic() {
	httpPanics.Inc()
}
