package serviceerrs

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrPromotionAlreadyUsed   = errors.New("promotion already used")
	ErrPromotionNotApplicable = errors.New("promotion not applicable")
	ErrEventBudgetExceeded    = errors.New("event budget exceeded")
	ErrAlreadyProcessed       = errors.New("already processed")
	ErrNotFound               = errors.New("not found")
	ErrServiceUnavailable     = errors.New("service unavailable")
	ErrInvalidFilter          = errors.New("invalid filter")

	ErrTokenExpired             = errors.New("token expired")
	ErrSemaphoreTimeoutExceeded = errors.New("semaphore acquire timeout exceeded")
)

type InsufficientBalanceError struct {
	UserID    int64
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: user %d has %d, requested %d",
		e.UserID, e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

type BudgetExceededError struct {
	EventID   int64
	Remaining int64
	Requested int64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("event budget exceeded: event %d has %d left, requested %d",
		e.EventID, e.Remaining, e.Requested)
}

func (e *BudgetExceededError) Unwrap() error {
	return ErrEventBudgetExceeded
}

// PromotionError names the promotion that failed a purchase.
type PromotionError struct {
	Err         error
	PromotionID int64
}

func (e *PromotionError) Error() string {
	return fmt.Sprintf("promotion %d: %v", e.PromotionID, e.Err)
}

func (e *PromotionError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the caller may repeat the request unmodified.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrInsufficientBalance, "insufficient_balance"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrPromotionAlreadyUsed, "promotion_already_used"},
	{ErrPromotionNotApplicable, "promotion_not_applicable"},
	{ErrEventBudgetExceeded, "event_budget_exceeded"},
	{ErrAlreadyProcessed, "already_processed"},
	{ErrNotFound, "not_found"},
	{ErrServiceUnavailable, "service_unavailable"},
	{ErrInvalidFilter, "invalid_filter"},
}

// Kind names the error kind of err for logs and metric labels.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
