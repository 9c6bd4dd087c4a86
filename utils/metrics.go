package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Memo Metrics
	MemoOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_operations_total",
			Help: "Total number of memo operations",
		},
		[]string{"operation"}, // create, update, delete, share
	)

	// Cache Metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"cache", "result"}, // hit/miss
	)

	// Subscription Metrics
	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_subscriptions_total",
			Help: "Number of open change-stream subscriptions",
		},
	)

	SubscriptionDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_deliveries_total",
			Help: "Full result-set deliveries pushed to subscribers",
		},
		[]string{"collection"},
	)

	// Push Metrics
	PushDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Push notification delivery attempts by outcome",
		},
		[]string{"outcome"}, // sent, failed, pruned
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, google/refresh
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions_total",
			Help: "Total number of active sessions",
		},
	)

	// Attachment Metrics
	AttachmentBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attachment_size_bytes",
			Help:    "Uploaded attachment sizes after compression",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"content_type"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by component and type",
		},
		[]string{"component", "type"},
	)

	// System Metrics
	SystemCPUUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Current CPU usage percentage",
		},
	)

	SystemMemoryUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_memory_usage_percent",
			Help: "Current memory usage percentage",
		},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackMemoOperation increments the memo operation counter
func TrackMemoOperation(operation string) {
	MemoOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackCacheOperation records a cache hit or miss
func TrackCacheOperation(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheOperationsTotal.WithLabelValues(cache, result).Inc()
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// UpdateActiveSessions sets the current number of active sessions
func UpdateActiveSessions(count float64) {
	ActiveSessions.Set(count)
}

// TrackError increments the error counter by component and type
func TrackError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// StartSystemMetrics samples CPU and memory gauges until stop is closed.
func StartSystemMetrics(stop <-chan struct{}, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				SystemCPUUsage.Set(GetCPUUsage())
				SystemMemoryUsage.Set(GetMemoryUsage())
			}
		}
	}()
}
