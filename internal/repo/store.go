package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

// Store is the PostgreSQL ledger storage. Row locks are taken with
// SELECT ... FOR UPDATE and bounded by lock_timeout.
type Store struct {
	DB
	lockTimeout time.Duration
}

func NewStore(pool connectionPool, log *slog.Logger, lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = model.DefaultLockTimeout
	}
	return &Store{
		DB: DB{
			pool: pool,
			log:  log.With("service", "repo"),
		},
		lockTimeout: lockTimeout,
	}
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx points.Tx) error) error {
	setLockTimeout := "SET LOCAL lock_timeout = '" +
		strconv.FormatInt(s.lockTimeout.Milliseconds(), 10) + "ms'"

	unitOfWork := func() (struct{}, error) {
		return WithTX[struct{}](ctx, s.pool, s.log,
			func(ctx context.Context, tx pgx.Tx) (struct{}, error) {
				if _, err := tx.Exec(ctx, setLockTimeout); err != nil {
					return struct{}{}, fmt.Errorf("failed to set lock timeout: %w", err)
				}
				return struct{}{}, fn(ctx, &ledgerTx{tx: tx})
			})
	}

	_, err := WithRetry[struct{}](ctx, unitOfWork, 0)
	return err
}

func (s *Store) Balance(ctx context.Context, userID int64) (int64, error) {
	return WithRetry[int64](ctx, func() (int64, error) {
		var balance int64
		err := s.pool.QueryRow(ctx,
			`SELECT points FROM users WHERE id = $1`, userID).Scan(&balance)
		if err != nil {
			return 0, fmt.Errorf("failed to get balance of user %d: %w", userID, classify(err))
		}
		return balance, nil
	}, 0)
}

func (s *Store) EventRemaining(ctx context.Context, eventID int64) (int64, error) {
	return WithRetry[int64](ctx, func() (int64, error) {
		var remaining int64
		err := s.pool.QueryRow(ctx,
			`SELECT points_remaining FROM events WHERE id = $1`, eventID).Scan(&remaining)
		if err != nil {
			return 0, fmt.Errorf("failed to get budget of event %d: %w", eventID, classify(err))
		}
		return remaining, nil
	}, 0)
}

func (s *Store) ListTransactions(ctx context.Context, f bonus.Filter) ([]bonus.Transaction, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != 0 {
		add("user_id = $%d", f.UserID)
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if !f.From.IsZero() {
		add("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at < $%d", f.To)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) != 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	return WithRetry[[]bonus.Transaction](ctx, func() ([]bonus.Transaction, error) {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (bonus.Transaction, error) {
			return scanTransaction(row)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read transactions: %w", err)
		}
		return list, nil
	}, 0)
}

func (s *Store) AppendSnapshot(ctx context.Context, snap bonus.Snapshot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO points_snapshots (user_id, balance, taken_at) VALUES ($1, $2, $3)`,
		snap.UserID, snap.Balance, snap.TakenAt)
	if isUniqueViolation(err) {
		return errors.New("snapshot timestamp is not increasing")
	}
	if err != nil {
		return fmt.Errorf("failed to append snapshot of user %d: %w", snap.UserID, classify(err))
	}
	return nil
}

// Snapshots lists the stored snapshots of a user, oldest first.
func (s *Store) Snapshots(ctx context.Context, userID int64) ([]bonus.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, balance, taken_at FROM points_snapshots
		WHERE user_id = $1 ORDER BY taken_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (bonus.Snapshot, error) {
		var snap bonus.Snapshot
		err := row.Scan(&snap.UserID, &snap.Balance, &snap.TakenAt)
		return snap, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return list, nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("%w: %w", serviceerrs.ErrServiceUnavailable, err)
	}
	return nil
}
