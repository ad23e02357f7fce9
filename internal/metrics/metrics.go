// Package metrics provides the Prometheus instruments for the disruptions server.
package metrics

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"disruptions.onebusaway.org/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "disruptions"

// Metrics holds every instrument and the registry they are registered on.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBWaitSecondsTotal prometheus.Counter

	// WorkaroundReconciliations counts entity-set reconciliations by workaround type.
	WorkaroundReconciliations *prometheus.CounterVec
	// WorkaroundMerges counts single-group edits by workaround type.
	WorkaroundMerges *prometheus.CounterVec
	// WorkaroundConfigErrors counts option requests for an unknown disruption type.
	WorkaroundConfigErrors prometheus.Counter
	// DisruptionsSaved counts persisted creates and updates by operation.
	DisruptionsSaved *prometheus.CounterVec

	logger *slog.Logger

	collectorStarted atomic.Bool
	cancel           context.CancelFunc
	wg               sync.WaitGroup
}

// New creates metrics on a fresh registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics that report collector failures to logger.
func NewWithLogger(logger *slog.Logger) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Number of open database connections",
		}),
		DBConnectionsInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Number of database connections currently in use",
		}),
		DBConnectionsIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Number of idle database connections",
		}),
		DBWaitSecondsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_wait_seconds_total",
			Help:      "Total time blocked waiting for a database connection",
		}),
		WorkaroundReconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workaround_reconciliations_total",
			Help:      "Workaround lists rebuilt after an affected-entity change",
		}, []string{"workaround_type"}),
		WorkaroundMerges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workaround_merges_total",
			Help:      "Single-group workaround edits merged into a disruption",
		}, []string{"workaround_type"}),
		WorkaroundConfigErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workaround_config_errors_total",
			Help:      "Workaround option requests for an unrecognised disruption type",
		}),
		DisruptionsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_total",
			Help:      "Disruptions persisted, by operation",
		}, []string{"operation"}),
		logger: logger,
	}

	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBConnectionsOpen,
		m.DBConnectionsInUse,
		m.DBConnectionsIdle,
		m.DBWaitSecondsTotal,
		m.WorkaroundReconciliations,
		m.WorkaroundMerges,
		m.WorkaroundConfigErrors,
		m.DisruptionsSaved,
	)
	return m
}

// StartDBStatsCollector samples db pool statistics every interval until
// Shutdown. Only the first call starts a collector.
func (m *Metrics) StartDBStatsCollector(db *sql.DB, interval time.Duration) {
	if db == nil {
		return
	}
	if !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.wg.Add(1)
	m.cancel = cancel

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.LogError(m.logger, "panic in DB stats collector", nil, slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var lastWait time.Duration
		for {
			select {
			case <-ticker.C:
				lastWait = m.recordDBStats(db.Stats(), lastWait)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// recordDBStats updates the pool gauges and returns the new cumulative wait.
func (m *Metrics) recordDBStats(stats sql.DBStats, lastWait time.Duration) time.Duration {
	m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
	m.DBConnectionsInUse.Set(float64(stats.InUse))
	m.DBConnectionsIdle.Set(float64(stats.Idle))
	if delta := stats.WaitDuration - lastWait; delta > 0 {
		m.DBWaitSecondsTotal.Add(delta.Seconds())
	}
	return stats.WaitDuration
}

// Shutdown stops the collector and waits for it. Safe to call repeatedly.
func (m *Metrics) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
