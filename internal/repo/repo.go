package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

type connectionPool interface {
	Begin(context.Context) (pgx.Tx, error)
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type DB struct {
	pool connectionPool
	log  *slog.Logger
}

type dbLogic[T any] func(ctx context.Context, tx pgx.Tx) (T, error)

func WithTX[T any](ctx context.Context,
	pool connectionPool, log *slog.Logger, f dbLogic[T],
) (T, error) {
	var zero T

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to begin TX: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.LogAttrs(ctx,
				slog.LevelError,
				"failed to rollback TX",
				slog.Any(model.KeyLoggerError, rbErr),
			)
		}
	}()

	res, err := f(ctx, tx)
	if err != nil {
		return zero, err //nolint: wrapcheck // error from wrapped function
	}

	if err = tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("failed to commit TX: %w", err)
	}
	return res, nil
}

const maxAttemptCount = 3

// WithRetry repeats dbQuery on transient storage failures. When the attempts
// are exhausted the error is reported as serviceerrs.ErrServiceUnavailable.
func WithRetry[T any](ctx context.Context, dbQuery func() (T, error), counter int) (T, error) {
	res, err := dbQuery()
	if err == nil {
		return res, nil
	}

	var zero T
	if !isRetryableError(err) {
		return zero, err
	}
	if counter+1 >= maxAttemptCount {
		return zero, fmt.Errorf("%w: failed after %d attempts: %w",
			serviceerrs.ErrServiceUnavailable, counter+1, err)
	}

	timer := time.NewTimer(time.Duration(counter*2+1) * retryStep) // count: 0 1 -> 50ms 150ms
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", serviceerrs.ErrServiceUnavailable, ctx.Err())
	case <-timer.C:
	}
	return WithRetry[T](ctx, dbQuery, counter+1)
}

const retryStep = 50 * time.Millisecond

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.ConnectionFailure,
			pgerrcode.CannotConnectNow,
			pgerrcode.SQLClientUnableToEstablishSQLConnection,
			pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection,
			pgerrcode.TransactionResolutionUnknown,
			pgerrcode.DeadlockDetected,
			pgerrcode.SerializationFailure,
			pgerrcode.LockNotAvailable:
			return true
		}
		return false
	}

	return pgconn.SafeToRetry(err)
}

// classify maps constraint failures onto service errors.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return serviceerrs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", serviceerrs.ErrNotFound, pgErr.ConstraintName)
	case pgerrcode.NumericValueOutOfRange:
		return fmt.Errorf("%w: %s", serviceerrs.ErrInvalidAmount, pgErr.Message)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
