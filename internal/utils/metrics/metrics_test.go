package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestLedger_singleton(t *testing.T) {
	assert.Same(t, Ledger(), Ledger())
}

func TestLedgerMetrics_Observe(t *testing.T) {
	m := Ledger()
	before := counterValue(t, m.operations.WithLabelValues("test_observe", "insufficient_balance"))
	m.Observe("test_observe", serviceerrs.ErrInsufficientBalance, time.Millisecond)
	m.Observe("test_observe", nil, time.Millisecond)
	m.Observe("test_observe", errors.New("boom"), time.Millisecond)

	assert.InDelta(t, before+1,
		counterValue(t, m.operations.WithLabelValues("test_observe", "insufficient_balance")), 0.001)
	assert.InDelta(t, 1, counterValue(t, m.operations.WithLabelValues("test_observe", "ok")), 0.001)
	assert.InDelta(t, 1, counterValue(t, m.operations.WithLabelValues("test_observe", "internal")), 0.001)
}

func TestLedgerMetrics_RecordDelta(t *testing.T) {
	m := Ledger()
	m.RecordDelta("test_delta", 30)
	m.RecordDelta("test_delta", -10)
	m.RecordDelta("test_delta", 0)

	assert.InDelta(t, 30, counterValue(t, m.deltas.WithLabelValues("test_delta", "credit")), 0.001)
	assert.InDelta(t, 10, counterValue(t, m.deltas.WithLabelValues("test_delta", "debit")), 0.001)
}

func TestLedgerMetrics_nil(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.Observe("x", nil, 0)
		m.RecordDelta("x", 1)
		m.RecordSnapshot(SnapshotDropped)
	})
}
