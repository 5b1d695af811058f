package points

import (
	"context"
	"time"

	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/model/promotion"
)

// Tx is one unit of work. Lock* methods hold the row until the unit of work
// ends; callers lock in the order transaction -> event -> users.
// Every method returns serviceerrs.ErrNotFound for unknown ids and
// serviceerrs.ErrServiceUnavailable when a lock cannot be taken in time.
type Tx interface {
	// LockBalances locks the users in ascending id order and returns their
	// balances.
	LockBalances(ctx context.Context, userIDs ...int64) (map[int64]int64, error)
	SetBalance(ctx context.Context, userID, balance int64) error

	FindPromotions(ctx context.Context, ids []int64) ([]promotion.Promotion, error)
	ActiveAutomaticPromotions(ctx context.Context, at time.Time) ([]promotion.Promotion, error)
	PromotionUsed(ctx context.Context, userID, promotionID int64) (bool, error)
	// InsertPromotionUsage fails with serviceerrs.ErrPromotionAlreadyUsed
	// when the pair exists.
	InsertPromotionUsage(ctx context.Context, userID, promotionID int64, transactionID string) error

	LockEvent(ctx context.Context, eventID int64) (event.Event, error)
	SetEventRemaining(ctx context.Context, eventID, remaining int64) error
	EventGuests(ctx context.Context, eventID int64) ([]int64, error)
	IsOrganizer(ctx context.Context, eventID, userID int64) (bool, error)

	InsertTransaction(ctx context.Context, t *bonus.Transaction) error
	FindTransaction(ctx context.Context, id string) (bonus.Transaction, error)
	LockTransaction(ctx context.Context, id string) (bonus.Transaction, error)
	MarkProcessed(ctx context.Context, id string, processorID int64) error
}

type Store interface {
	// InTx commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Balance(ctx context.Context, userID int64) (int64, error)
	EventRemaining(ctx context.Context, eventID int64) (int64, error)
	ListTransactions(ctx context.Context, f bonus.Filter) ([]bonus.Transaction, error)
	AppendSnapshot(ctx context.Context, s bonus.Snapshot) error
}
