package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atrium_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PermissionChecks counts permission resolution calls by taxonomy and outcome.
	PermissionChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_permission_checks_total",
		Help: "Total number of permission checks by taxonomy and result",
	}, []string{"taxonomy", "result"})

	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_auth_failures_total",
		Help: "Total number of failed authentication attempts",
	}, []string{"reason"})

	// CustomerBlocks counts customer block operations.
	CustomerBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atrium_customer_blocks_total",
		Help: "Total number of customer block audit rows created",
	})

	// RoomsCreated counts room documents inserted into the store.
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atrium_rooms_created_total",
		Help: "Total number of room documents created",
	})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
