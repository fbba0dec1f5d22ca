// Package metrics provides Prometheus instrumentation for the back-office.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backoffice"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route pattern and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern, and status class.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AdminActionsTotal counts server actions by name and outcome kind.
	AdminActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_actions_total",
			Help:      "Admin actions by name and outcome.",
		},
		[]string{"action", "outcome"},
	)

	// AuditLogWritesTotal counts persisted audit records.
	AuditLogWritesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_log_writes_total",
		Help:      "Audit records persisted.",
	})

	// AuditLogFailuresTotal counts audit records lost to a persistence failure.
	AuditLogFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_log_failures_total",
		Help:      "Audit records that could not be persisted.",
	})

	// AuditLogWriteDuration observes the time spent persisting one audit record.
	AuditLogWriteDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_log_write_duration_seconds",
		Help:      "Audit record insert latency in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	// ActiveWebSocketClients tracks connected live-feed clients.
	ActiveWebSocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_websocket_clients",
		Help:      "Number of currently connected admin-log feed clients.",
	})

	// SlackAlertsTotal counts escalation alerts by result.
	SlackAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slack_alerts_total",
			Help:      "Escalation alerts sent to Slack by result.",
		},
		[]string{"result"},
	)

	DBTotalConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_total_connections",
		Help: "Connections currently held by the pool.",
	})
	DBIdleConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_idle_connections",
		Help: "Idle connections in the pool.",
	})
	DBAcquiredConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_acquired_connections",
		Help: "Connections currently acquired from the pool.",
	})
	DBEmptyAcquireCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_empty_acquire_total",
		Help: "Acquires that had to wait for a connection.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AdminActionsTotal,
		AuditLogWritesTotal,
		AuditLogFailuresTotal,
		AuditLogWriteDuration,
		ActiveWebSocketClients,
		SlackAlertsTotal,
		DBTotalConns,
		DBIdleConns,
		DBAcquiredConns,
		DBEmptyAcquireCount,
	)
}

// PoolStater is satisfied by the Postgres store.
type PoolStater interface {
	Stat() *pgxpool.Stat
}

// StartPoolStatsCollector samples connection pool statistics every interval
// until ctx is done.
func StartPoolStatsCollector(ctx context.Context, p PoolStater, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			recordPoolStats(p.Stat())
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func recordPoolStats(s *pgxpool.Stat) {
	DBTotalConns.Set(float64(s.TotalConns()))
	DBIdleConns.Set(float64(s.IdleConns()))
	DBAcquiredConns.Set(float64(s.AcquiredConns()))
	DBEmptyAcquireCount.Set(float64(s.EmptyAcquireCount()))
}

// Middleware records request count and latency labelled by chi route pattern,
// not raw path, to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(r.Method, route, statusBucket(status)).Inc()
	})
}

// Handler returns the Prometheus scrape handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusBucket groups HTTP status codes into classes (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
