package points

import (
	"context"
	"fmt"

	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

// Budgets guards the points an event may still award.
type Budgets struct {
	store Store
}

func NewBudgets(store Store) *Budgets {
	return &Budgets{store: store}
}

// Reserve takes amount from the event budget in its own unit of work.
func (b *Budgets) Reserve(ctx context.Context, eventID, amount int64) (event.Event, error) {
	var ev event.Event
	err := b.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		ev, err = b.reserve(ctx, tx, eventID, amount)
		return err
	})
	if err != nil {
		return event.Event{}, fmt.Errorf("reserve %d from event %d: %w", amount, eventID, err)
	}
	return ev, nil
}

func (b *Budgets) Remaining(ctx context.Context, eventID int64) (int64, error) {
	remaining, err := b.store.EventRemaining(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("budget of event %d: %w", eventID, err)
	}
	return remaining, nil
}

func (b *Budgets) reserve(ctx context.Context, tx Tx, eventID, amount int64,
) (event.Event, error) {
	if amount <= 0 {
		return event.Event{}, fmt.Errorf("%w: reservation must be positive", serviceerrs.ErrInvalidAmount)
	}
	ev, err := tx.LockEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, fmt.Errorf("lock event %d: %w", eventID, err)
	}
	if amount > ev.PointsRemaining {
		return event.Event{}, &serviceerrs.BudgetExceededError{
			EventID:   eventID,
			Remaining: ev.PointsRemaining,
			Requested: amount,
		}
	}
	ev.PointsRemaining -= amount
	if err = tx.SetEventRemaining(ctx, eventID, ev.PointsRemaining); err != nil {
		return event.Event{}, fmt.Errorf("update event %d: %w", eventID, err)
	}
	return ev, nil
}
