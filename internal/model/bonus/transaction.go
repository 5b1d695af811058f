package bonus

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPurchase   Kind = "purchase"
	KindAdjustment Kind = "adjustment"
	KindTransfer   Kind = "transfer"
	KindRedemption Kind = "redemption"
	KindEvent      Kind = "event"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindPurchase, KindAdjustment, KindTransfer, KindRedemption, KindEvent:
		return true
	}
	return false
}

// Transaction is one immutable ledger record. Fields that belong to a single
// kind stay zero for the others.
type Transaction struct {
	CreatedAt     time.Time           `json:"created_at"`
	Spent         decimal.NullDecimal `json:"spent"`
	ID            string              `json:"id"`
	Kind          Kind                `json:"type"`
	Remark        string              `json:"remark,omitempty"`
	OrderNumber   string              `json:"order_number,omitempty"`
	RelatedID     string              `json:"related_id,omitempty"`
	State         RedemptionState     `json:"state,omitempty"`
	PromotionIDs  []int64             `json:"promotion_ids"`
	Amount        int64               `json:"amount"`
	UserID        int64               `json:"user_id"`
	CreatedBy     int64               `json:"created_by"`
	CounterpartID int64               `json:"counterpart_id,omitempty"`
	EventID       int64               `json:"event_id,omitempty"`
	ProcessedBy   int64               `json:"processed_by,omitempty"`
}

// Filter selects history records; zero fields match everything.
type Filter struct {
	From   time.Time
	To     time.Time
	Kind   Kind
	UserID int64
}

func (f *Filter) Match(t *Transaction) bool {
	if f.UserID != 0 && t.UserID != f.UserID {
		return false
	}
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if !f.From.IsZero() && t.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

type Snapshot struct {
	TakenAt time.Time `json:"taken_at"`
	UserID  int64     `json:"user_id"`
	Balance int64     `json:"balance"`
}
