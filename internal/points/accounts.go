package points

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
	"github.com/talx-hub/loyalty-ledger/internal/utils/metrics"
)

const (
	ReasonPurchase    = "purchase"
	ReasonAdjustment  = "adjustment"
	ReasonTransferIn  = "transfer_in"
	ReasonTransferOut = "transfer_out"
	ReasonRedemption  = "redemption"
	ReasonEvent       = "event"
)

// SnapshotSink receives balances after their change is committed.
type SnapshotSink interface {
	Record(userID, balance int64, at time.Time)
}

type entry struct {
	reason  string
	userID  int64
	delta   int64
	balance int64
}

// journal collects the balance changes of one unit of work; it is published
// only after commit.
type journal struct {
	entries []entry
}

func (j *journal) reset() {
	j.entries = j.entries[:0]
}

func (j *journal) add(e entry) {
	j.entries = append(j.entries, e)
}

type Accounts struct {
	store     Store
	log       *slog.Logger
	metrics   *metrics.LedgerMetrics
	snapshots SnapshotSink
	now       func() time.Time
}

func NewAccounts(store Store, log *slog.Logger, m *metrics.LedgerMetrics,
	snapshots SnapshotSink, now func() time.Time,
) *Accounts {
	return &Accounts{
		store:     store,
		log:       log.With("service", "accounts"),
		metrics:   m,
		snapshots: snapshots,
		now:       now,
	}
}

// ApplyDelta changes one balance in its own unit of work and returns the new
// balance.
func (a *Accounts) ApplyDelta(ctx context.Context, userID, delta int64, reason string,
) (int64, error) {
	j := &journal{}
	var balance int64
	err := a.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		j.reset()
		var err error
		balance, err = a.apply(ctx, tx, j, userID, delta, reason)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("apply delta %d to user %d: %w", delta, userID, err)
	}
	a.publish(j)
	return balance, nil
}

func (a *Accounts) Balance(ctx context.Context, userID int64) (int64, error) {
	balance, err := a.store.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("balance of user %d: %w", userID, err)
	}
	return balance, nil
}

func (a *Accounts) apply(ctx context.Context, tx Tx, j *journal,
	userID, delta int64, reason string,
) (int64, error) {
	balances, err := tx.LockBalances(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("lock user %d: %w", userID, err)
	}
	return a.applyLocked(ctx, tx, j, userID, balances[userID], delta, reason)
}

// applyLocked expects the user row to be locked by tx already.
func (a *Accounts) applyLocked(ctx context.Context, tx Tx, j *journal,
	userID, current, delta int64, reason string,
) (int64, error) {
	next, err := model.AddPoints(current, delta)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidAmount, err)
	}
	if next < 0 {
		return 0, &serviceerrs.InsufficientBalanceError{
			UserID:    userID,
			Balance:   current,
			Requested: -delta,
		}
	}
	if err = tx.SetBalance(ctx, userID, next); err != nil {
		return 0, fmt.Errorf("set balance of user %d: %w", userID, err)
	}

	a.log.LogAttrs(ctx, slog.LevelDebug, "balance changed",
		slog.Int64("user_id", userID),
		slog.Int64("delta", delta),
		slog.Int64("balance", next),
		slog.String("reason", reason),
	)
	j.add(entry{reason: reason, userID: userID, delta: delta, balance: next})
	return next, nil
}

func (a *Accounts) publish(j *journal) {
	at := a.now()
	for _, e := range j.entries {
		a.metrics.RecordDelta(e.reason, e.delta)
		if a.snapshots != nil {
			a.snapshots.Record(e.userID, e.balance, at)
		}
	}
}
