package points

import (
	"context"
	"fmt"
	"slices"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

// CreateEventAward pays amount to one guest or to every guest of the event.
// Only an organizer of the event may award. The budget is reserved for the
// whole batch at once, so either every guest is paid or none is.
func (s *Service) CreateEventAward(ctx context.Context, a EventAward) ([]bonus.Transaction, error) {
	if a.Amount <= 0 {
		return nil, fmt.Errorf("%w: award must be positive", serviceerrs.ErrInvalidAmount)
	}

	var result []bonus.Transaction
	err := s.run(ctx, opEventAward, func(ctx context.Context, tx Tx, j *journal) error {
		organizer, err := tx.IsOrganizer(ctx, a.EventID, a.CreatedBy)
		if err != nil {
			return fmt.Errorf("organizers of event %d: %w", a.EventID, err)
		}
		if !organizer {
			return fmt.Errorf("organizer %d of event %d: %w",
				a.CreatedBy, a.EventID, serviceerrs.ErrNotFound)
		}
		guests, err := tx.EventGuests(ctx, a.EventID)
		if err != nil {
			return fmt.Errorf("guests of event %d: %w", a.EventID, err)
		}
		targets, err := awardTargets(guests, a)
		if err != nil {
			return err
		}

		total, err := model.MulPoints(a.Amount, len(targets))
		if err != nil {
			return fmt.Errorf("%w: %w", serviceerrs.ErrInvalidAmount, err)
		}
		if _, err = s.budgets.reserve(ctx, tx, a.EventID, total); err != nil {
			return err
		}

		balances, err := tx.LockBalances(ctx, targets...)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		awarded := make([]bonus.Transaction, 0, len(targets))
		for _, guest := range targets {
			if _, err = s.accounts.applyLocked(ctx, tx, j,
				guest, balances[guest], a.Amount, ReasonEvent); err != nil {
				return err
			}
			t := bonus.Transaction{
				ID:        s.newID(),
				Kind:      bonus.KindEvent,
				UserID:    guest,
				CreatedBy: a.CreatedBy,
				EventID:   a.EventID,
				Amount:    a.Amount,
				Remark:    a.Remark,
				CreatedAt: now,
			}
			if err = tx.InsertTransaction(ctx, &t); err != nil {
				return err
			}
			awarded = append(awarded, t)
		}
		result = awarded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func awardTargets(guests []int64, a EventAward) ([]int64, error) {
	if a.UserID == event.AllGuests {
		if len(guests) == 0 {
			return nil, fmt.Errorf("event %d has no guests: %w", a.EventID, serviceerrs.ErrNotFound)
		}
		targets := slices.Clone(guests)
		slices.Sort(targets)
		return slices.Compact(targets), nil
	}
	if !slices.Contains(guests, a.UserID) {
		return nil, fmt.Errorf("guest %d of event %d: %w", a.UserID, a.EventID, serviceerrs.ErrNotFound)
	}
	return []int64{a.UserID}, nil
}
