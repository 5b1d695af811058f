package repo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/model/promotion"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

const transactionColumns = `id::text, kind, user_id, created_by, amount, spent::text,
	order_number, remark, related_id::text, counterpart_id, event_id, state,
	processed_by, promotion_ids, created_at`

const promotionColumns = `id, name, kind, start_time, end_time, min_spend::text,
	rate::text, points`

const eventColumns = `id, name, start_time, end_time, capacity, points_total,
	points_remaining, published`

type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) LockBalances(ctx context.Context, userIDs ...int64) (map[int64]int64, error) {
	ids := slices.Clone(userIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	rows, err := t.tx.Query(ctx,
		`SELECT id, points FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock users: %w", err)
	}
	defer rows.Close()

	balances := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, balance int64
		if err = rows.Scan(&id, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[id] = balance
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock users: %w", err)
	}

	for _, id := range ids {
		if _, ok := balances[id]; !ok {
			return nil, fmt.Errorf("user %d: %w", id, serviceerrs.ErrNotFound)
		}
	}
	return balances, nil
}

func (t *ledgerTx) SetBalance(ctx context.Context, userID, balance int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE users SET points = $2 WHERE id = $1`, userID, balance)
	if err != nil {
		return fmt.Errorf("failed to update balance of user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, serviceerrs.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) FindPromotions(ctx context.Context, ids []int64) ([]promotion.Promotion, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find promotions: %w", err)
	}
	promos, err := pgx.CollectRows(rows, scanPromotion)
	if err != nil {
		return nil, fmt.Errorf("failed to read promotions: %w", err)
	}

	for _, id := range ids {
		found := slices.ContainsFunc(promos, func(p promotion.Promotion) bool {
			return p.ID == id
		})
		if !found {
			return nil, &serviceerrs.PromotionError{PromotionID: id, Err: serviceerrs.ErrNotFound}
		}
	}
	return promos, nil
}

func (t *ledgerTx) ActiveAutomaticPromotions(ctx context.Context, at time.Time,
) ([]promotion.Promotion, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+promotionColumns+` FROM promotions
		WHERE kind = $1 AND start_time <= $2 AND end_time > $2
		ORDER BY id`, string(promotion.KindAutomatic), at)
	if err != nil {
		return nil, fmt.Errorf("failed to find automatic promotions: %w", err)
	}
	promos, err := pgx.CollectRows(rows, scanPromotion)
	if err != nil {
		return nil, fmt.Errorf("failed to read promotions: %w", err)
	}
	return promos, nil
}

func (t *ledgerTx) PromotionUsed(ctx context.Context, userID, promotionID int64) (bool, error) {
	var used bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM promotion_usages WHERE user_id = $1 AND promotion_id = $2)`,
		userID, promotionID).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("failed to check promotion usage: %w", err)
	}
	return used, nil
}

func (t *ledgerTx) InsertPromotionUsage(ctx context.Context,
	userID, promotionID int64, transactionID string,
) error {
	id, err := parseID(transactionID)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx,
		`INSERT INTO promotion_usages (user_id, promotion_id, transaction_id) VALUES ($1, $2, $3)`,
		userID, promotionID, id)
	if isUniqueViolation(err) {
		return serviceerrs.ErrPromotionAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("failed to mark promotion %d used: %w", promotionID, classify(err))
	}
	return nil
}

func (t *ledgerTx) LockEvent(ctx context.Context, eventID int64) (event.Event, error) {
	var ev event.Event
	var capacity *int64
	err := t.tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID).
		Scan(&ev.ID, &ev.Name, &ev.StartTime, &ev.EndTime, &capacity,
			&ev.PointsTotal, &ev.PointsRemaining, &ev.Published)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to lock event %d: %w", eventID, classify(err))
	}
	if capacity != nil {
		ev.Capacity = *capacity
	}
	return ev, nil
}

func (t *ledgerTx) SetEventRemaining(ctx context.Context, eventID, remaining int64) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE events SET points_remaining = $2 WHERE id = $1`, eventID, remaining)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %d: %w", eventID, serviceerrs.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) EventGuests(ctx context.Context, eventID int64) ([]int64, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to find event %d: %w", eventID, err)
	}
	if !exists {
		return nil, fmt.Errorf("event %d: %w", eventID, serviceerrs.ErrNotFound)
	}

	rows, err := t.tx.Query(ctx,
		`SELECT user_id FROM event_guests WHERE event_id = $1 ORDER BY user_id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests of event %d: %w", eventID, err)
	}
	guests, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to read guests: %w", err)
	}
	return guests, nil
}

func (t *ledgerTx) IsOrganizer(ctx context.Context, eventID, userID int64) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_organizers WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check organizer %d of event %d: %w", userID, eventID, err)
	}
	return ok, nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, tr *bonus.Transaction) error {
	id, err := parseID(tr.ID)
	if err != nil {
		return err
	}
	var related *uuid.UUID
	if tr.RelatedID != "" {
		r, err := parseID(tr.RelatedID)
		if err != nil {
			return err
		}
		related = &r
	}
	promotionIDs := tr.PromotionIDs
	if promotionIDs == nil {
		promotionIDs = []int64{}
	}

	_, err = t.tx.Exec(ctx,
		`INSERT INTO transactions (id, kind, user_id, created_by, amount, spent,
			order_number, remark, related_id, counterpart_id, event_id, state,
			processed_by, promotion_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		id, string(tr.Kind), tr.UserID, tr.CreatedBy, tr.Amount, nullSpent(tr.Spent),
		nullString(tr.OrderNumber), tr.Remark, related, nullInt(tr.CounterpartID),
		nullInt(tr.EventID), nullString(string(tr.State)), nullInt(tr.ProcessedBy),
		promotionIDs, tr.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", classify(err))
	}
	return nil
}

func (t *ledgerTx) FindTransaction(ctx context.Context, id string) (bonus.Transaction, error) {
	return t.selectTransaction(ctx, id, "")
}

func (t *ledgerTx) LockTransaction(ctx context.Context, id string) (bonus.Transaction, error) {
	return t.selectTransaction(ctx, id, " FOR UPDATE")
}

func (t *ledgerTx) selectTransaction(ctx context.Context, id, suffix string,
) (bonus.Transaction, error) {
	txID, err := parseID(id)
	if err != nil {
		return bonus.Transaction{}, err
	}
	tr, err := scanTransaction(t.tx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`+suffix, txID))
	if err != nil {
		return bonus.Transaction{}, fmt.Errorf("failed to find transaction %s: %w", id, classify(err))
	}
	return tr, nil
}

func (t *ledgerTx) MarkProcessed(ctx context.Context, id string, processorID int64) error {
	txID, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx,
		`UPDATE transactions SET state = $3, processed_by = $2
		WHERE id = $1 AND kind = $4 AND state = $5`,
		txID, processorID, string(bonus.StateProcessed),
		string(bonus.KindRedemption), string(bonus.StateRequested))
	if err != nil {
		return fmt.Errorf("failed to process transaction %s: %w", id, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", id, serviceerrs.ErrAlreadyProcessed)
	}
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("transaction %q: %w", id, serviceerrs.ErrNotFound)
	}
	return parsed, nil
}

func scanPromotion(row pgx.CollectableRow) (promotion.Promotion, error) {
	var (
		p        promotion.Promotion
		kind     string
		minSpend string
		rate     *string
		points   *int64
	)
	if err := row.Scan(&p.ID, &p.Name, &kind, &p.StartTime, &p.EndTime,
		&minSpend, &rate, &points); err != nil {
		return promotion.Promotion{}, err //nolint: wrapcheck // wrapped by the caller
	}
	p.Kind = promotion.Kind(kind)

	var err error
	if p.MinSpend, err = decimal.NewFromString(minSpend); err != nil {
		return promotion.Promotion{}, fmt.Errorf("invalid min spend of promotion %d: %w", p.ID, err)
	}
	var multiplier *decimal.Decimal
	if rate != nil {
		m, err := decimal.NewFromString(*rate)
		if err != nil {
			return promotion.Promotion{}, fmt.Errorf("invalid rate of promotion %d: %w", p.ID, err)
		}
		multiplier = &m
	}
	if p.Reward, err = promotion.NewReward(multiplier, points); err != nil {
		return promotion.Promotion{}, fmt.Errorf("promotion %d: %w", p.ID, err)
	}
	return p, nil
}

func scanTransaction(row pgx.Row) (bonus.Transaction, error) {
	var (
		tr            bonus.Transaction
		kind          string
		spent         *string
		orderNumber   *string
		relatedID     *string
		counterpartID *int64
		eventID       *int64
		state         *string
		processedBy   *int64
	)
	err := row.Scan(&tr.ID, &kind, &tr.UserID, &tr.CreatedBy, &tr.Amount, &spent,
		&orderNumber, &tr.Remark, &relatedID, &counterpartID, &eventID, &state,
		&processedBy, &tr.PromotionIDs, &tr.CreatedAt)
	if err != nil {
		return bonus.Transaction{}, err //nolint: wrapcheck // wrapped by the caller
	}

	tr.Kind = bonus.Kind(kind)
	tr.CreatedAt = tr.CreatedAt.UTC()
	if spent != nil {
		d, err := decimal.NewFromString(*spent)
		if err != nil {
			return bonus.Transaction{}, fmt.Errorf("invalid spend of transaction %s: %w", tr.ID, err)
		}
		tr.Spent = decimal.NewNullDecimal(d)
	}
	tr.OrderNumber = deref(orderNumber)
	tr.RelatedID = deref(relatedID)
	tr.State = bonus.RedemptionState(deref(state))
	tr.CounterpartID = deref(counterpartID)
	tr.EventID = deref(eventID)
	tr.ProcessedBy = deref(processedBy)
	if len(tr.PromotionIDs) == 0 {
		tr.PromotionIDs = nil
	}
	return tr, nil
}

func nullSpent(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
