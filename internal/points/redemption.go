package points

import (
	"context"
	"errors"
	"fmt"

	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

// Process debits a requested redemption. A redemption that was processed
// before is returned unchanged together with serviceerrs.ErrAlreadyProcessed.
// On insufficient balance the redemption stays requested.
func (s *Service) Process(ctx context.Context, transactionID string, processorID int64,
) (bonus.Transaction, error) {
	var result bonus.Transaction
	err := s.run(ctx, opProcess, func(ctx context.Context, tx Tx, j *journal) error {
		t, err := tx.LockTransaction(ctx, transactionID)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", transactionID, err)
		}
		if t.Kind != bonus.KindRedemption {
			return fmt.Errorf("redemption %s: %w", transactionID, serviceerrs.ErrNotFound)
		}

		next, err := t.State.Process()
		if err != nil {
			result = t
			return fmt.Errorf("redemption %s: %w", transactionID, err)
		}

		// amount of a redemption is stored negative
		if _, err = s.accounts.apply(ctx, tx, j, t.UserID, t.Amount, ReasonRedemption); err != nil {
			return err
		}
		if err = tx.MarkProcessed(ctx, transactionID, processorID); err != nil {
			return err
		}

		t.State = next
		t.ProcessedBy = processorID
		result = t
		return nil
	})
	if errors.Is(err, serviceerrs.ErrAlreadyProcessed) {
		return result, err
	}
	if err != nil {
		return bonus.Transaction{}, err
	}
	return result, nil
}
