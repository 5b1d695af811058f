package points

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/promotion"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

type Evaluation struct {
	// Applied holds every promotion that contributed, ascending.
	Applied []int64
	// OneTime holds the applied promotions that must be marked used.
	OneTime []int64
	Bonus   int64
}

// Evaluator decides which promotions apply to a purchase.
type Evaluator struct{}

// Evaluate fails the whole purchase when any requested promotion cannot be
// applied. Active automatic promotions apply without being requested.
func (e *Evaluator) Evaluate(ctx context.Context, tx Tx,
	userID int64, spend decimal.Decimal, requested []int64, now time.Time,
) (Evaluation, error) {
	ids := dedup(requested)
	chosen := make(map[int64]promotion.Promotion, len(ids))

	if len(ids) != 0 {
		promos, err := tx.FindPromotions(ctx, ids)
		if err != nil {
			return Evaluation{}, fmt.Errorf("find promotions: %w", err)
		}
		for _, p := range promos {
			if !p.ActiveAt(now) || !p.Qualifies(spend) {
				return Evaluation{}, &serviceerrs.PromotionError{
					PromotionID: p.ID,
					Err:         serviceerrs.ErrPromotionNotApplicable,
				}
			}
			chosen[p.ID] = p
		}
	}

	automatic, err := tx.ActiveAutomaticPromotions(ctx, now)
	if err != nil {
		return Evaluation{}, fmt.Errorf("find automatic promotions: %w", err)
	}
	for _, p := range automatic {
		if _, ok := chosen[p.ID]; !ok && p.Qualifies(spend) {
			chosen[p.ID] = p
		}
	}

	var ev Evaluation
	for _, p := range chosen {
		if p.IsOneTime() {
			used, err := tx.PromotionUsed(ctx, userID, p.ID)
			if err != nil {
				return Evaluation{}, fmt.Errorf("check usage of promotion %d: %w", p.ID, err)
			}
			if used {
				return Evaluation{}, &serviceerrs.PromotionError{
					PromotionID: p.ID,
					Err:         serviceerrs.ErrPromotionAlreadyUsed,
				}
			}
			ev.OneTime = append(ev.OneTime, p.ID)
		}

		bonus, err := p.Reward.Bonus(spend)
		if err != nil {
			return Evaluation{}, fmt.Errorf("promotion %d bonus: %w", p.ID, err)
		}
		if ev.Bonus, err = model.AddPoints(ev.Bonus, bonus); err != nil {
			return Evaluation{}, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidAmount, err)
		}
		ev.Applied = append(ev.Applied, p.ID)
	}
	slices.Sort(ev.Applied)
	slices.Sort(ev.OneTime)

	return ev, nil
}

// MarkUsed records the one-time promotions of ev as consumed by the
// transaction. The storage uniqueness constraint decides concurrent races.
func (e *Evaluator) MarkUsed(ctx context.Context, tx Tx,
	userID int64, ev Evaluation, transactionID string,
) error {
	for _, id := range ev.OneTime {
		err := tx.InsertPromotionUsage(ctx, userID, id, transactionID)
		if errors.Is(err, serviceerrs.ErrPromotionAlreadyUsed) {
			return &serviceerrs.PromotionError{PromotionID: id, Err: err}
		}
		if err != nil {
			return fmt.Errorf("mark promotion %d used: %w", id, err)
		}
	}
	return nil
}

func dedup(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
