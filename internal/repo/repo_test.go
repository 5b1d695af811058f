package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/dbmanager"
	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
	"github.com/talx-hub/loyalty-ledger/internal/utils/pgcontainer"
)

const testDefaultTimeout = 5 * time.Second

const (
	alice   int64 = 1
	bob     int64 = 2
	cashier int64 = 10
)

var getDBManager func() *dbmanager.DBManager

func TestMain(m *testing.M) {
	log := slog.Default()
	code, err := runMain(m, log)
	if err != nil {
		log.ErrorContext(context.TODO(),
			"unexpected test failure",
			slog.Any(model.KeyLoggerError, err),
		)
	}
	os.Exit(code)
}

func runMain(m *testing.M, log *slog.Logger) (int, error) {
	pg := pgcontainer.New(log)
	err := pg.RunContainer()
	defer pg.Close()
	if err != nil {
		return 1, fmt.Errorf("failed to run docker container: %w", err)
	}

	db := dbmanager.New(pg.GetDSN(), log)
	ctx, cancel := context.WithTimeout(context.Background(), testDefaultTimeout)
	defer cancel()
	db.Connect(ctx).Ping(ctx).ApplyMigrations(ctx)
	if err = db.Error(); err != nil {
		return 1, fmt.Errorf("failed to prepare test DB: %w", err)
	}
	defer db.Close()
	getDBManager = func() *dbmanager.DBManager {
		return db
	}

	return m.Run(), nil
}

func loadFixtureFile(conn *pgxpool.Pool, filepath string) error {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read fixture file: %w", err)
	}

	queries := strings.Split(string(content), ";")

	for _, rawQuery := range queries {
		query := strings.TrimSpace(rawQuery)
		if query == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), testDefaultTimeout)
		_, err := conn.Exec(ctx, query)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to execute query [%s]: %w", query, err)
		}
	}

	return nil
}

func setupStore(t *testing.T, lockTimeout time.Duration,
) (*Store, *points.Service, context.Context, *pgxpool.Pool) {
	t.Helper()

	pool, err := getDBManager().GetPool(context.Background())
	require.NoError(t, err)
	require.NoError(t, loadFixtureFile(pool, "./fixtures/ledger.sql"))

	ctx, cancel := context.WithTimeout(context.Background(), 4*testDefaultTimeout)
	t.Cleanup(cancel)
	store := NewStore(pool, slog.Default(), lockTimeout)
	return store, points.New(store, slog.Default()), ctx, pool
}

func TestStore_PurchaseWithOneTimePromotion(t *testing.T) {
	store, s, ctx, _ := setupStore(t, time.Second)

	purchase := points.Purchase{
		UserID:       alice,
		CreatedBy:    cashier,
		Spent:        decimal.RequireFromString("50.25"),
		PromotionIDs: []int64{1},
		OrderNumber:  "79927398713",
	}
	tr, err := s.CreatePurchase(ctx, purchase)
	require.NoError(t, err)
	assert.Equal(t, int64(70), tr.Amount)

	balance, err := store.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(170), balance)

	_, err = s.CreatePurchase(ctx, purchase)
	require.ErrorIs(t, err, serviceerrs.ErrPromotionAlreadyUsed)
	balance, err = store.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(170), balance)

	list, err := store.ListTransactions(ctx, bonus.Filter{UserID: alice, Kind: bonus.KindPurchase})
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, tr.ID, got.ID)
	assert.True(t, got.Spent.Valid)
	assert.True(t, decimal.RequireFromString("50.25").Equal(got.Spent.Decimal))
	assert.Equal(t, []int64{1}, got.PromotionIDs)
	assert.Equal(t, "79927398713", got.OrderNumber)
	assert.Equal(t, cashier, got.CreatedBy)
}

func TestStore_PurchasePromotions(t *testing.T) {
	tests := []struct {
		name       string
		spent      string
		promotions []int64
		wantErr    error
		wantAmount int64
	}{
		{"automatic applies", "100", nil, nil, 150},
		{"expired", "100", []int64{3}, serviceerrs.ErrPromotionNotApplicable, 0},
		{"unknown", "100", []int64{404}, serviceerrs.ErrNotFound, 0},
		{"below min spend", "5", []int64{1}, serviceerrs.ErrPromotionNotApplicable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s, ctx, _ := setupStore(t, time.Second)
			tr, err := s.CreatePurchase(ctx, points.Purchase{
				UserID:       bob,
				CreatedBy:    cashier,
				Spent:        decimal.RequireFromString(tt.spent),
				PromotionIDs: tt.promotions,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, tr.Amount)
		})
	}
}

func TestStore_ConcurrentOneTimePromotion(t *testing.T) {
	store, s, ctx, _ := setupStore(t, time.Second)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreatePurchase(ctx, points.Purchase{
				UserID:       3,
				CreatedBy:    cashier,
				Spent:        decimal.NewFromInt(10),
				PromotionIDs: []int64{1},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, serviceerrs.ErrPromotionAlreadyUsed)
	}
	assert.Equal(t, 1, ok)

	balance, err := store.Balance(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)
}

func TestStore_TransferAndRedemption(t *testing.T) {
	store, s, ctx, _ := setupStore(t, time.Second)

	sent, err := s.CreateTransfer(ctx, points.Transfer{
		SenderID: alice, RecipientID: bob, Amount: 40, Remark: "lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-40), sent.Amount)

	_, err = s.CreateTransfer(ctx, points.Transfer{SenderID: alice, RecipientID: bob, Amount: 61})
	require.ErrorIs(t, err, serviceerrs.ErrInsufficientBalance)

	a, err := store.Balance(ctx, alice)
	require.NoError(t, err)
	b, err := store.Balance(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(60), a)
	assert.Equal(t, int64(90), b)

	received, err := store.ListTransactions(ctx, bonus.Filter{UserID: bob, Kind: bonus.KindTransfer})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, sent.ID, received[0].RelatedID)
	assert.Equal(t, alice, received[0].CounterpartID)

	req, err := s.CreateRedemptionRequest(ctx, points.RedemptionRequest{UserID: bob, Amount: 90})
	require.NoError(t, err)
	processed, err := s.Process(ctx, req.ID, cashier)
	require.NoError(t, err)
	assert.Equal(t, bonus.StateProcessed, processed.State)

	again, err := s.Process(ctx, req.ID, cashier)
	require.ErrorIs(t, err, serviceerrs.ErrAlreadyProcessed)
	assert.Equal(t, cashier, again.ProcessedBy)

	b, err = store.Balance(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b)

	_, err = s.Process(ctx, "not-a-uuid", cashier)
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)
}

func TestStore_EventAward(t *testing.T) {
	store, s, ctx, _ := setupStore(t, time.Second)

	_, err := s.CreateEventAward(ctx, points.EventAward{
		EventID: 5, CreatedBy: alice, UserID: event.AllGuests, Amount: 25,
	})
	require.ErrorIs(t, err, serviceerrs.ErrNotFound, "alice is a guest, not an organizer")

	_, err = s.CreateEventAward(ctx, points.EventAward{
		EventID: 5, CreatedBy: cashier, UserID: event.AllGuests, Amount: 30,
	})
	require.ErrorIs(t, err, serviceerrs.ErrEventBudgetExceeded)
	remaining, err := store.EventRemaining(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(100), remaining)

	awarded, err := s.CreateEventAward(ctx, points.EventAward{
		EventID: 5, CreatedBy: cashier, UserID: event.AllGuests, Amount: 25,
	})
	require.NoError(t, err)
	assert.Len(t, awarded, 4)
	remaining, err = store.EventRemaining(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	balance, err := store.Balance(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	_, err = s.CreateEventAward(ctx, points.EventAward{
		EventID: 6, CreatedBy: cashier, UserID: event.AllGuests, Amount: 1,
	})
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)
}

func TestStore_Snapshots(t *testing.T) {
	store, _, ctx, _ := setupStore(t, time.Second)
	at := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, store.AppendSnapshot(ctx, bonus.Snapshot{UserID: alice, Balance: 1, TakenAt: at}))
	require.NoError(t, store.AppendSnapshot(ctx,
		bonus.Snapshot{UserID: alice, Balance: 2, TakenAt: at.Add(time.Microsecond)}))
	require.Error(t, store.AppendSnapshot(ctx, bonus.Snapshot{UserID: alice, Balance: 3, TakenAt: at}))
	require.ErrorIs(t, store.AppendSnapshot(ctx,
		bonus.Snapshot{UserID: 404, Balance: 3, TakenAt: at}), serviceerrs.ErrNotFound)

	list, err := store.Snapshots(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[1].Balance)
}

func TestStore_LockTimeoutIsServiceUnavailable(t *testing.T) {
	store, _, ctx, pool := setupStore(t, 100*time.Millisecond)

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, alice)
	require.NoError(t, err)

	err = store.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		_, err := tx.LockBalances(ctx, alice)
		return err
	})
	require.ErrorIs(t, err, serviceerrs.ErrServiceUnavailable)
}

func TestStore_NotFound(t *testing.T) {
	store, _, ctx, _ := setupStore(t, time.Second)

	_, err := store.Balance(ctx, 404)
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)
	_, err = store.EventRemaining(ctx, 404)
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)

	err = store.InTx(ctx, func(ctx context.Context, tx points.Tx) error {
		_, err := tx.LockBalances(ctx, alice, 404)
		return err
	})
	require.ErrorIs(t, err, serviceerrs.ErrNotFound)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, true},
		{"lock timeout", fmt.Errorf("wrapped: %w",
			&pgconn.PgError{Code: pgerrcode.LockNotAvailable}), true},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, true},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, false},
		{"domain error", serviceerrs.ErrInsufficientBalance, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, serviceerrs.ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, serviceerrs.ErrNotFound},
		{"numeric overflow", &pgconn.PgError{
			Code:    pgerrcode.NumericValueOutOfRange,
			Message: "numeric field overflow",
		}, serviceerrs.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.Equal(t, error(unique), classify(unique))
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	_, err := WithRetry[int](ctx, func() (int, error) {
		calls++
		return 0, &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	}, 0)
	require.ErrorIs(t, err, serviceerrs.ErrServiceUnavailable)
	assert.Equal(t, maxAttemptCount, calls)

	calls = 0
	got, err := WithRetry[int](ctx, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		}
		return 42, nil
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	calls = 0
	errBoom := errors.New("boom")
	_, err = WithRetry[int](ctx, func() (int, error) {
		calls++
		return 0, errBoom
	}, 0)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
}
