package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

const namespace = "loyalty"

const (
	SnapshotQueued  = "queued"
	SnapshotDropped = "dropped"
	SnapshotWritten = "written"
	SnapshotFailed  = "failed"
)

type LedgerMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	deltas     *prometheus.CounterVec
	snapshots  *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger returns the lazily registered ledger metrics.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operation_duration_seconds",
				Help:      "Latency of ledger operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			deltas: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "points_total",
				Help:      "Points moved by balance deltas, by reason and direction.",
			}, []string{"reason", "direction"}),
			snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "snapshots",
				Name:      "total",
				Help:      "Balance snapshots by result.",
			}, []string{"result"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.operations,
			ledgerRegistry.latency,
			ledgerRegistry.deltas,
			ledgerRegistry.snapshots,
		)
	})
	return ledgerRegistry
}

func (m *LedgerMetrics) Observe(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, serviceerrs.Kind(err)).Inc()
	m.latency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *LedgerMetrics) RecordDelta(reason string, delta int64) {
	if m == nil || delta == 0 {
		return
	}
	direction := "credit"
	if delta < 0 {
		direction = "debit"
		delta = -delta
	}
	m.deltas.WithLabelValues(reason, direction).Add(float64(delta))
}

func (m *LedgerMetrics) RecordSnapshot(result string) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(result).Inc()
}
