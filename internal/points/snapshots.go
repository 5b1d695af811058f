package points

import (
	"context"
	"log/slog"
	"time"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/utils/metrics"
)

// Snapshotter persists balance snapshots off the request path. Record never
// blocks: when the queue is full the snapshot is dropped.
type Snapshotter struct {
	store   Store
	log     *slog.Logger
	metrics *metrics.LedgerMetrics
	queue   chan bonus.Snapshot
	// last is owned by the Run goroutine.
	last map[int64]time.Time
}

func NewSnapshotter(store Store, log *slog.Logger, m *metrics.LedgerMetrics, buffer int,
) *Snapshotter {
	if buffer <= 0 {
		buffer = model.DefaultSnapshotBuffer
	}
	return &Snapshotter{
		store:   store,
		log:     log.With("service", "snapshots"),
		metrics: m,
		queue:   make(chan bonus.Snapshot, buffer),
		last:    make(map[int64]time.Time),
	}
}

func (s *Snapshotter) Record(userID, balance int64, at time.Time) {
	snap := bonus.Snapshot{UserID: userID, Balance: balance, TakenAt: at}
	select {
	case s.queue <- snap:
		s.metrics.RecordSnapshot(metrics.SnapshotQueued)
	default:
		s.metrics.RecordSnapshot(metrics.SnapshotDropped)
		s.log.LogAttrs(context.Background(), slog.LevelWarn,
			"snapshot queue is full, dropping",
			slog.Int64("user_id", userID),
			slog.Int64("balance", balance),
		)
	}
}

// Run writes queued snapshots until ctx is done, then drains what is left.
func (s *Snapshotter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.drain(context.WithoutCancel(ctx))
			return
		case snap := <-s.queue:
			s.write(ctx, snap)
		}
	}
}

func (s *Snapshotter) drain(ctx context.Context) {
	for {
		select {
		case snap := <-s.queue:
			s.write(ctx, snap)
		default:
			return
		}
	}
}

func (s *Snapshotter) write(ctx context.Context, snap bonus.Snapshot) {
	// storage keeps microseconds; timestamps per user must strictly grow
	snap.TakenAt = snap.TakenAt.UTC().Truncate(time.Microsecond)
	if last, ok := s.last[snap.UserID]; ok && !snap.TakenAt.After(last) {
		snap.TakenAt = last.Add(time.Microsecond)
	}
	s.last[snap.UserID] = snap.TakenAt

	ctx, cancel := context.WithTimeout(ctx, model.DefaultTimeout)
	defer cancel()
	if err := s.store.AppendSnapshot(ctx, snap); err != nil {
		s.metrics.RecordSnapshot(metrics.SnapshotFailed)
		s.log.LogAttrs(ctx, slog.LevelError, "failed to write snapshot",
			slog.Int64("user_id", snap.UserID),
			slog.Any(model.KeyLoggerError, err),
		)
		return
	}
	s.metrics.RecordSnapshot(metrics.SnapshotWritten)
}
