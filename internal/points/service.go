package points

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
	"github.com/talx-hub/loyalty-ledger/internal/utils/metrics"
)

const (
	opPurchase   = "purchase"
	opAdjustment = "adjustment"
	opTransfer   = "transfer"
	opRedemption = "redemption_request"
	opProcess    = "redemption_process"
	opEventAward = "event_award"
)

// Service records ledger transactions. Every operation runs in one unit of
// work: it either applies all its mutations or none.
type Service struct {
	store      Store
	log        *slog.Logger
	metrics    *metrics.LedgerMetrics
	snapshots  SnapshotSink
	now        func() time.Time
	newID      func() string
	accounts   *Accounts
	budgets    *Budgets
	promotions *Evaluator
	earnRate   decimal.Decimal
}

type Option func(*Service)

// WithEarnRate sets the points earned per currency unit of a purchase.
func WithEarnRate(rate decimal.Decimal) Option {
	return func(s *Service) {
		s.earnRate = rate
	}
}

func WithSnapshots(sink SnapshotSink) Option {
	return func(s *Service) {
		s.snapshots = sink
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithMetrics(m *metrics.LedgerMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(store Store, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		log:        log.With("service", "ledger"),
		now:        time.Now,
		newID:      uuid.NewString,
		earnRate:   decimal.NewFromInt(1),
		promotions: &Evaluator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.accounts = NewAccounts(store, log, s.metrics, s.snapshots, s.now)
	s.budgets = NewBudgets(store)
	return s
}

func (s *Service) Accounts() *Accounts {
	return s.accounts
}

func (s *Service) Budgets() *Budgets {
	return s.budgets
}

type Purchase struct {
	Spent        decimal.Decimal
	Remark       string
	OrderNumber  string
	PromotionIDs []int64
	UserID       int64
	CreatedBy    int64
}

type Adjustment struct {
	RelatedID string
	Remark    string
	UserID    int64
	CreatedBy int64
	Amount    int64
}

type Transfer struct {
	Remark      string
	SenderID    int64
	RecipientID int64
	Amount      int64
}

type RedemptionRequest struct {
	Remark string
	UserID int64
	Amount int64
}

type EventAward struct {
	Remark    string
	EventID   int64
	CreatedBy int64
	// UserID is the single guest to award, or event.AllGuests.
	UserID int64
	Amount int64
}

func (s *Service) CreatePurchase(ctx context.Context, p Purchase) (bonus.Transaction, error) {
	if p.Spent.Sign() <= 0 {
		return bonus.Transaction{}, fmt.Errorf("%w: spend must be positive", serviceerrs.ErrInvalidAmount)
	}
	if err := model.CheckSpend(p.Spent); err != nil {
		return bonus.Transaction{}, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidAmount, err)
	}
	base, err := model.PointsFor(p.Spent, s.earnRate)
	if err != nil {
		return bonus.Transaction{}, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidAmount, err)
	}

	var result bonus.Transaction
	err = s.run(ctx, opPurchase, func(ctx context.Context, tx Tx, j *journal) error {
		now := s.now()
		balances, err := tx.LockBalances(ctx, p.UserID)
		if err != nil {
			return err
		}
		ev, err := s.promotions.Evaluate(ctx, tx, p.UserID, p.Spent, p.PromotionIDs, now)
		if err != nil {
			return err
		}
		total, err := model.AddPoints(base, ev.Bonus)
		if err != nil {
			return fmt.Errorf("%w: %w", serviceerrs.ErrInvalidAmount, err)
		}
		if _, err = s.accounts.applyLocked(
			ctx, tx, j, p.UserID, balances[p.UserID], total, ReasonPurchase); err != nil {
			return err
		}

		t := bonus.Transaction{
			ID:           s.newID(),
			Kind:         bonus.KindPurchase,
			UserID:       p.UserID,
			CreatedBy:    p.CreatedBy,
			Amount:       total,
			Spent:        decimal.NewNullDecimal(p.Spent),
			PromotionIDs: ev.Applied,
			OrderNumber:  p.OrderNumber,
			Remark:       p.Remark,
			CreatedAt:    now.UTC(),
		}
		if err = tx.InsertTransaction(ctx, &t); err != nil {
			return err
		}
		if err = s.promotions.MarkUsed(ctx, tx, p.UserID, ev, t.ID); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return bonus.Transaction{}, err
	}
	return result, nil
}

func (s *Service) CreateAdjustment(ctx context.Context, a Adjustment) (bonus.Transaction, error) {
	if a.Amount == 0 {
		return bonus.Transaction{}, fmt.Errorf("%w: adjustment must not be zero", serviceerrs.ErrInvalidAmount)
	}

	var result bonus.Transaction
	err := s.run(ctx, opAdjustment, func(ctx context.Context, tx Tx, j *journal) error {
		if a.RelatedID != "" {
			related, err := tx.FindTransaction(ctx, a.RelatedID)
			if err != nil {
				return fmt.Errorf("related transaction %s: %w", a.RelatedID, err)
			}
			if related.UserID != a.UserID {
				return fmt.Errorf("related transaction %s of user %d: %w",
					a.RelatedID, a.UserID, serviceerrs.ErrNotFound)
			}
		}
		if _, err := s.accounts.apply(ctx, tx, j, a.UserID, a.Amount, ReasonAdjustment); err != nil {
			return err
		}

		t := bonus.Transaction{
			ID:        s.newID(),
			Kind:      bonus.KindAdjustment,
			UserID:    a.UserID,
			CreatedBy: a.CreatedBy,
			Amount:    a.Amount,
			RelatedID: a.RelatedID,
			Remark:    a.Remark,
			CreatedAt: s.now().UTC(),
		}
		if err := tx.InsertTransaction(ctx, &t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return bonus.Transaction{}, err
	}
	return result, nil
}

// CreateTransfer returns the sender leg; the recipient leg mirrors it.
func (s *Service) CreateTransfer(ctx context.Context, tr Transfer) (bonus.Transaction, error) {
	if tr.Amount <= 0 {
		return bonus.Transaction{}, fmt.Errorf("%w: transfer must be positive", serviceerrs.ErrInvalidAmount)
	}
	if tr.SenderID == tr.RecipientID {
		return bonus.Transaction{}, fmt.Errorf("%w: cannot transfer to yourself", serviceerrs.ErrInvalidAmount)
	}

	var result bonus.Transaction
	err := s.run(ctx, opTransfer, func(ctx context.Context, tx Tx, j *journal) error {
		balances, err := tx.LockBalances(ctx, tr.SenderID, tr.RecipientID)
		if err != nil {
			return err
		}
		if _, err = s.accounts.applyLocked(ctx, tx, j,
			tr.SenderID, balances[tr.SenderID], -tr.Amount, ReasonTransferOut); err != nil {
			return err
		}
		if _, err = s.accounts.applyLocked(ctx, tx, j,
			tr.RecipientID, balances[tr.RecipientID], tr.Amount, ReasonTransferIn); err != nil {
			return err
		}

		now := s.now().UTC()
		sent := bonus.Transaction{
			ID:            s.newID(),
			Kind:          bonus.KindTransfer,
			UserID:        tr.SenderID,
			CreatedBy:     tr.SenderID,
			CounterpartID: tr.RecipientID,
			Amount:        -tr.Amount,
			Remark:        tr.Remark,
			CreatedAt:     now,
		}
		received := sent
		received.ID = s.newID()
		received.UserID = tr.RecipientID
		received.CounterpartID = tr.SenderID
		received.Amount = tr.Amount
		sent.RelatedID = received.ID
		received.RelatedID = sent.ID

		if err = tx.InsertTransaction(ctx, &sent); err != nil {
			return err
		}
		if err = tx.InsertTransaction(ctx, &received); err != nil {
			return err
		}
		result = sent
		return nil
	})
	if err != nil {
		return bonus.Transaction{}, err
	}
	return result, nil
}

// CreateRedemptionRequest only checks the balance; the debit happens when the
// request is processed.
func (s *Service) CreateRedemptionRequest(ctx context.Context, r RedemptionRequest,
) (bonus.Transaction, error) {
	if r.Amount <= 0 {
		return bonus.Transaction{}, fmt.Errorf("%w: redemption must be positive", serviceerrs.ErrInvalidAmount)
	}

	var result bonus.Transaction
	err := s.run(ctx, opRedemption, func(ctx context.Context, tx Tx, _ *journal) error {
		balances, err := tx.LockBalances(ctx, r.UserID)
		if err != nil {
			return err
		}
		if balance := balances[r.UserID]; r.Amount > balance {
			return &serviceerrs.InsufficientBalanceError{
				UserID:    r.UserID,
				Balance:   balance,
				Requested: r.Amount,
			}
		}

		t := bonus.Transaction{
			ID:        s.newID(),
			Kind:      bonus.KindRedemption,
			UserID:    r.UserID,
			CreatedBy: r.UserID,
			Amount:    -r.Amount,
			State:     bonus.StateRequested,
			Remark:    r.Remark,
			CreatedAt: s.now().UTC(),
		}
		if err = tx.InsertTransaction(ctx, &t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return bonus.Transaction{}, err
	}
	return result, nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.accounts.Balance(ctx, userID)
}

func (s *Service) EventBudget(ctx context.Context, eventID int64) (int64, error) {
	return s.budgets.Remaining(ctx, eventID)
}

func (s *Service) History(ctx context.Context, f bonus.Filter) ([]bonus.Transaction, error) {
	if f.Kind != "" && !f.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", serviceerrs.ErrInvalidFilter, f.Kind)
	}
	list, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

func (s *Service) run(ctx context.Context, operation string,
	fn func(ctx context.Context, tx Tx, j *journal) error,
) error {
	start := time.Now()
	j := &journal{}
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		j.reset()
		return fn(ctx, tx, j)
	})
	s.metrics.Observe(operation, err, time.Since(start))

	if err != nil {
		level := slog.LevelInfo
		if errors.Is(err, serviceerrs.ErrServiceUnavailable) ||
			serviceerrs.Kind(err) == "internal" {
			level = slog.LevelError
		}
		s.log.LogAttrs(ctx, level, "operation failed",
			slog.String("operation", operation),
			slog.String("kind", serviceerrs.Kind(err)),
			slog.Any(model.KeyLoggerError, err),
		)
		return fmt.Errorf("%s: %w", operation, err)
	}
	s.accounts.publish(j)
	return nil
}
