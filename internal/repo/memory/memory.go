package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/model/event"
	"github.com/talx-hub/loyalty-ledger/internal/model/promotion"
	"github.com/talx-hub/loyalty-ledger/internal/model/user"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
	"github.com/talx-hub/loyalty-ledger/internal/utils/semaphore"
)

type usageKey struct {
	userID      int64
	promotionID int64
}

type eventRow struct {
	guests     []int64
	organizers []int64
	event      event.Event
}

// Store keeps the ledger in process memory. Rows are locked with timed
// semaphores for the lifetime of a unit of work; writes stay private to the
// unit of work until commit.
type Store struct {
	users        map[int64]user.User
	events       map[int64]*eventRow
	promotions   map[int64]promotion.Promotion
	usages       map[usageKey]string
	transactions map[string]bonus.Transaction
	locks        map[string]*semaphore.Semaphore
	order        []string
	snapshots    []bonus.Snapshot
	lockTimeout  time.Duration
	mu           sync.RWMutex
}

func New(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = model.DefaultLockTimeout
	}
	return &Store{
		users:        make(map[int64]user.User),
		events:       make(map[int64]*eventRow),
		promotions:   make(map[int64]promotion.Promotion),
		usages:       make(map[usageKey]string),
		transactions: make(map[string]bonus.Transaction),
		locks:        make(map[string]*semaphore.Semaphore),
		lockTimeout:  lockTimeout,
	}
}

func (s *Store) AddUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) AddPromotion(p promotion.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions[p.ID] = p
}

func (s *Store) AddEvent(ev event.Event, guests ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = &eventRow{event: ev, guests: slices.Clone(guests)}
}

// AddOrganizers lets the users award points at an event added with AddEvent.
func (s *Store) AddOrganizers(eventID int64, userIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.events[eventID]; ok {
		row.organizers = append(row.organizers, userIDs...)
	}
}

const (
	maxAttemptCount = 3
	retryStep       = 50 * time.Millisecond
)

// InTx runs fn in a fresh unit of work, repeating it when a row lock times
// out. Backoff and attempt count follow the Postgres store.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx points.Tx) error) error {
	for counter := 0; ; counter++ {
		err := s.inTx(ctx, fn)
		if err == nil || !errors.Is(err, serviceerrs.ErrSemaphoreTimeoutExceeded) {
			return err
		}
		if counter+1 >= maxAttemptCount {
			return fmt.Errorf("failed after %d attempts: %w", counter+1, err)
		}

		timer := time.NewTimer(time.Duration(counter*2+1) * retryStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", serviceerrs.ErrServiceUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
}

func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context, tx points.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	t := newTx(s)
	defer t.release()

	if err := fn(ctx, t); err != nil {
		return err
	}
	return s.commit(t)
}

func (s *Store) Balance(_ context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, fmt.Errorf("user %d: %w", userID, serviceerrs.ErrNotFound)
	}
	return u.Points, nil
}

func (s *Store) EventRemaining(_ context.Context, eventID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.events[eventID]
	if !ok {
		return 0, fmt.Errorf("event %d: %w", eventID, serviceerrs.ErrNotFound)
	}
	return row.event.PointsRemaining, nil
}

func (s *Store) ListTransactions(_ context.Context, f bonus.Filter) ([]bonus.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]bonus.Transaction, 0)
	for _, id := range s.order {
		t := s.transactions[id]
		if f.Match(&t) {
			list = append(list, cloneTransaction(t))
		}
	}
	slices.SortStableFunc(list, func(a, b bonus.Transaction) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list, nil
}

func (s *Store) AppendSnapshot(_ context.Context, snap bonus.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[snap.UserID]; !ok {
		return fmt.Errorf("user %d: %w", snap.UserID, serviceerrs.ErrNotFound)
	}
	s.snapshots = append(s.snapshots, snap)
	return nil
}

// Ping reports whether the store can serve ctx.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Snapshots returns the stored snapshots of a user in insertion order.
func (s *Store) Snapshots(userID int64) []bonus.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []bonus.Snapshot
	for _, snap := range s.snapshots {
		if snap.UserID == userID {
			out = append(out, snap)
		}
	}
	return out
}

func (s *Store) lockFor(key string) *semaphore.Semaphore {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = semaphore.New(1)
		s.locks[key] = l
	}
	return l
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range t.usages {
		if _, ok := s.usages[k]; ok {
			return &serviceerrs.PromotionError{
				PromotionID: k.promotionID,
				Err:         serviceerrs.ErrPromotionAlreadyUsed,
			}
		}
	}
	for _, tr := range t.inserted {
		if _, ok := s.transactions[tr.ID]; ok {
			return fmt.Errorf("duplicate transaction id %s", tr.ID)
		}
	}

	for id, balance := range t.balances {
		u := s.users[id]
		u.Points = balance
		s.users[id] = u
	}
	for id, remaining := range t.remaining {
		s.events[id].event.PointsRemaining = remaining
	}
	for k, txID := range t.usages {
		s.usages[k] = txID
	}
	for _, tr := range t.inserted {
		s.transactions[tr.ID] = tr
		s.order = append(s.order, tr.ID)
	}
	for id, processor := range t.processed {
		tr := s.transactions[id]
		tr.State = bonus.StateProcessed
		tr.ProcessedBy = processor
		s.transactions[id] = tr
	}
	return nil
}

type tx struct {
	store     *Store
	held      map[string]*semaphore.Semaphore
	balances  map[int64]int64
	remaining map[int64]int64
	usages    map[usageKey]string
	processed map[string]int64
	inserted  []bonus.Transaction
}

func newTx(s *Store) *tx {
	return &tx{
		store:     s,
		held:      make(map[string]*semaphore.Semaphore),
		balances:  make(map[int64]int64),
		remaining: make(map[int64]int64),
		usages:    make(map[usageKey]string),
		processed: make(map[string]int64),
	}
}

func (t *tx) release() {
	for _, l := range t.held {
		l.Release()
	}
	clear(t.held)
}

func (t *tx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	l := t.store.lockFor(key)
	err := l.AcquireWithTimeout(ctx, t.store.lockTimeout)
	if errors.Is(err, serviceerrs.ErrSemaphoreTimeoutExceeded) {
		return fmt.Errorf("lock %s: %w: %w", key, serviceerrs.ErrServiceUnavailable, err)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	t.held[key] = l
	return nil
}

func (t *tx) userExists(id int64) bool {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	_, ok := t.store.users[id]
	return ok
}

func (t *tx) LockBalances(ctx context.Context, userIDs ...int64) (map[int64]int64, error) {
	ids := slices.Clone(userIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		if !t.userExists(id) {
			return nil, fmt.Errorf("user %d: %w", id, serviceerrs.ErrNotFound)
		}
		if err := t.lock(ctx, fmt.Sprintf("user:%d", id)); err != nil {
			return nil, err
		}
		balance, ok := t.balances[id]
		if !ok {
			t.store.mu.RLock()
			balance = t.store.users[id].Points
			t.store.mu.RUnlock()
		}
		out[id] = balance
	}
	return out, nil
}

func (t *tx) SetBalance(_ context.Context, userID, balance int64) error {
	if _, ok := t.held[fmt.Sprintf("user:%d", userID)]; !ok {
		return fmt.Errorf("user %d is not locked", userID)
	}
	t.balances[userID] = balance
	return nil
}

func (t *tx) FindPromotions(_ context.Context, ids []int64) ([]promotion.Promotion, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]promotion.Promotion, 0, len(ids))
	for _, id := range ids {
		p, ok := t.store.promotions[id]
		if !ok {
			return nil, &serviceerrs.PromotionError{PromotionID: id, Err: serviceerrs.ErrNotFound}
		}
		out = append(out, p)
	}
	return out, nil
}

func (t *tx) ActiveAutomaticPromotions(_ context.Context, at time.Time) ([]promotion.Promotion, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	var out []promotion.Promotion
	for _, p := range t.store.promotions {
		if p.Kind == promotion.KindAutomatic && p.ActiveAt(at) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b promotion.Promotion) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (t *tx) PromotionUsed(_ context.Context, userID, promotionID int64) (bool, error) {
	k := usageKey{userID: userID, promotionID: promotionID}
	if _, ok := t.usages[k]; ok {
		return true, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	_, ok := t.store.usages[k]
	return ok, nil
}

func (t *tx) InsertPromotionUsage(ctx context.Context, userID, promotionID int64, transactionID string,
) error {
	used, err := t.PromotionUsed(ctx, userID, promotionID)
	if err != nil {
		return err
	}
	if used {
		return serviceerrs.ErrPromotionAlreadyUsed
	}
	t.usages[usageKey{userID: userID, promotionID: promotionID}] = transactionID
	return nil
}

func (t *tx) LockEvent(ctx context.Context, eventID int64) (event.Event, error) {
	t.store.mu.RLock()
	_, ok := t.store.events[eventID]
	t.store.mu.RUnlock()
	if !ok {
		return event.Event{}, fmt.Errorf("event %d: %w", eventID, serviceerrs.ErrNotFound)
	}
	if err := t.lock(ctx, fmt.Sprintf("event:%d", eventID)); err != nil {
		return event.Event{}, err
	}

	t.store.mu.RLock()
	ev := t.store.events[eventID].event
	t.store.mu.RUnlock()
	if remaining, ok := t.remaining[eventID]; ok {
		ev.PointsRemaining = remaining
	}
	return ev, nil
}

func (t *tx) SetEventRemaining(_ context.Context, eventID, remaining int64) error {
	if _, ok := t.held[fmt.Sprintf("event:%d", eventID)]; !ok {
		return fmt.Errorf("event %d is not locked", eventID)
	}
	t.remaining[eventID] = remaining
	return nil
}

func (t *tx) EventGuests(_ context.Context, eventID int64) ([]int64, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	row, ok := t.store.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %d: %w", eventID, serviceerrs.ErrNotFound)
	}
	return slices.Clone(row.guests), nil
}

func (t *tx) IsOrganizer(_ context.Context, eventID, userID int64) (bool, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	row, ok := t.store.events[eventID]
	if !ok {
		return false, fmt.Errorf("event %d: %w", eventID, serviceerrs.ErrNotFound)
	}
	return slices.Contains(row.organizers, userID), nil
}

func (t *tx) InsertTransaction(_ context.Context, tr *bonus.Transaction) error {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	for _, id := range []int64{tr.UserID, tr.CreatedBy} {
		if _, ok := t.store.users[id]; !ok {
			return fmt.Errorf("user %d: %w", id, serviceerrs.ErrNotFound)
		}
	}
	if tr.EventID != 0 {
		if _, ok := t.store.events[tr.EventID]; !ok {
			return fmt.Errorf("event %d: %w", tr.EventID, serviceerrs.ErrNotFound)
		}
	}
	t.inserted = append(t.inserted, cloneTransaction(*tr))
	return nil
}

func (t *tx) FindTransaction(_ context.Context, id string) (bonus.Transaction, error) {
	for _, tr := range t.inserted {
		if tr.ID == id {
			return cloneTransaction(tr), nil
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	tr, ok := t.store.transactions[id]
	if !ok {
		return bonus.Transaction{}, fmt.Errorf("transaction %s: %w", id, serviceerrs.ErrNotFound)
	}
	return cloneTransaction(tr), nil
}

func (t *tx) LockTransaction(ctx context.Context, id string) (bonus.Transaction, error) {
	if _, err := t.FindTransaction(ctx, id); err != nil {
		return bonus.Transaction{}, err
	}
	if err := t.lock(ctx, "transaction:"+id); err != nil {
		return bonus.Transaction{}, err
	}
	tr, err := t.FindTransaction(ctx, id)
	if err != nil {
		return bonus.Transaction{}, err
	}
	if processor, ok := t.processed[id]; ok {
		tr.State = bonus.StateProcessed
		tr.ProcessedBy = processor
	}
	return tr, nil
}

func (t *tx) MarkProcessed(_ context.Context, id string, processorID int64) error {
	if _, ok := t.held["transaction:"+id]; !ok {
		return fmt.Errorf("transaction %s is not locked", id)
	}
	if !t.userExists(processorID) {
		return fmt.Errorf("processor %d: %w", processorID, serviceerrs.ErrNotFound)
	}
	t.processed[id] = processorID
	return nil
}

func cloneTransaction(t bonus.Transaction) bonus.Transaction {
	t.PromotionIDs = slices.Clone(t.PromotionIDs)
	return t
}
