package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/model/user"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

func setupStore() *Store {
	s := New(50 * time.Millisecond)
	s.AddUser(user.User{ID: 1, Points: 100})
	s.AddUser(user.User{ID: 2, Points: 5})
	s.AddEvent(event.Event{ID: 9, PointsRemaining: 30}, 1, 2)
	s.AddOrganizers(9, 2)
	return s
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	s := setupStore()
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		if _, err := tx.LockBalances(ctx, 1); err != nil {
			return err
		}
		require.NoError(t, tx.SetBalance(ctx, 1, 0))
		if _, err := tx.LockEvent(ctx, 9); err != nil {
			return err
		}
		require.NoError(t, tx.SetEventRemaining(ctx, 9, 0))
		require.NoError(t, tx.InsertTransaction(ctx, &bonus.Transaction{
			ID: "t1", Kind: bonus.KindAdjustment, UserID: 1, CreatedBy: 1,
		}))
		require.NoError(t, tx.InsertPromotionUsage(ctx, 1, 3, "t1"))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	balance, err := s.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	remaining, err := s.EventRemaining(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(30), remaining)
	list, err := s.ListTransactions(ctx, bonus.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_CommitPublishesWrites(t *testing.T) {
	s := setupStore()
	ctx := context.Background()

	err := s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		balances, err := tx.LockBalances(ctx, 2, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, map[int64]int64{1: 100, 2: 5}, balances)
		require.NoError(t, tx.SetBalance(ctx, 2, 6))

		again, err := tx.LockBalances(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(6), again[2], "own writes are visible")
		return tx.InsertTransaction(ctx, &bonus.Transaction{
			ID: "t1", Kind: bonus.KindRedemption, UserID: 2, CreatedBy: 2,
			State: bonus.StateRequested, Amount: -1,
		})
	})
	require.NoError(t, err)

	balance, err := s.Balance(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance)

	err = s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		tr, err := tx.LockTransaction(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, bonus.StateRequested, tr.State)
		return tx.MarkProcessed(ctx, "t1", 1)
	})
	require.NoError(t, err)

	list, err := s.ListTransactions(ctx, bonus.Filter{UserID: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bonus.StateProcessed, list[0].State)
	assert.Equal(t, int64(1), list[0].ProcessedBy)
}

func TestStore_LockTimeout(t *testing.T) {
	s := setupStore()
	ctx := context.Background()
	locked := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
			_, err := tx.LockBalances(ctx, 1)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	attempts := 0
	err := s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		attempts++
		_, err := tx.LockBalances(ctx, 1)
		return err
	})
	close(done)
	require.ErrorIs(t, err, serviceerrs.ErrServiceUnavailable)
	assert.True(t, serviceerrs.IsRetryable(err))
	assert.Equal(t, maxAttemptCount, attempts)
}

func TestStore_LockTimeoutRetried(t *testing.T) {
	s := setupStore()
	ctx := context.Background()
	locked := make(chan struct{})
	done := make(chan struct{})
	holderErr := make(chan error, 1)

	go func() {
		holderErr <- s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
			_, err := tx.LockBalances(ctx, 1)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	attempts := 0
	err := s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		attempts++
		if attempts == 2 {
			close(done)
		}
		balances, err := tx.LockBalances(ctx, 1)
		if err != nil {
			return err
		}
		return tx.SetBalance(ctx, 1, balances[1]+1)
	})
	require.NoError(t, err)
	require.NoError(t, <-holderErr)
	assert.Equal(t, 2, attempts)

	balance, err := s.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(101), balance)
}

func TestStore_NotFound(t *testing.T) {
	s := setupStore()
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(ctx context.Context, tx points.Tx) error
	}{
		{"user", func(ctx context.Context, tx points.Tx) error {
			_, err := tx.LockBalances(ctx, 1, 404)
			return err
		}},
		{"event", func(ctx context.Context, tx points.Tx) error {
			_, err := tx.LockEvent(ctx, 404)
			return err
		}},
		{"guests", func(ctx context.Context, tx points.Tx) error {
			_, err := tx.EventGuests(ctx, 404)
			return err
		}},
		{"organizers", func(ctx context.Context, tx points.Tx) error {
			_, err := tx.IsOrganizer(ctx, 404, 1)
			return err
		}},
		{"promotion", func(ctx context.Context, tx points.Tx) error {
			_, err := tx.FindPromotions(ctx, []int64{404})
			return err
		}},
		{"transaction", func(ctx context.Context, tx points.Tx) error {
			_, err := tx.LockTransaction(ctx, "404")
			return err
		}},
		{"creator", func(ctx context.Context, tx points.Tx) error {
			return tx.InsertTransaction(ctx, &bonus.Transaction{ID: "x", UserID: 1, CreatedBy: 404})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InTx(ctx, tt.fn)
			require.ErrorIs(t, err, serviceerrs.ErrNotFound)
		})
	}

	_, err := s.Balance(ctx, 404)
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)
}

func TestStore_IsOrganizer(t *testing.T) {
	s := setupStore()
	s.AddOrganizers(404, 1)

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"organizer", 2, true},
		{"guest only", 1, false},
		{"stranger", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InTx(context.Background(), func(ctx context.Context, tx points.Tx) error {
				got, err := tx.IsOrganizer(ctx, 9, tt.userID)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestStore_PromotionUsageUnique(t *testing.T) {
	s := setupStore()
	ctx := context.Background()

	insert := func(txID string) error {
		return s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
			if err := tx.InsertTransaction(ctx, &bonus.Transaction{
				ID: txID, Kind: bonus.KindPurchase, UserID: 1, CreatedBy: 1,
			}); err != nil {
				return err
			}
			return tx.InsertPromotionUsage(ctx, 1, 3, txID)
		})
	}
	require.NoError(t, insert("t1"))
	require.ErrorIs(t, insert("t2"), serviceerrs.ErrPromotionAlreadyUsed)

	err := s.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		used, err := tx.PromotionUsed(ctx, 1, 3)
		require.NoError(t, err)
		assert.True(t, used)
		used, err = tx.PromotionUsed(ctx, 2, 3)
		require.NoError(t, err)
		assert.False(t, used)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_Ping(t *testing.T) {
	s := setupStore()
	require.NoError(t, s.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
