package promotion

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindAutomatic Kind = "automatic"
	KindOneTime   Kind = "onetime"
)

// Reward is either Rate or Flat.
type Reward interface {
	Bonus(spend decimal.Decimal) (int64, error)
	isReward()
}

// Rate awards floor(spend * Multiplier).
type Rate struct {
	Multiplier decimal.Decimal
}

// Flat awards a fixed number of points.
type Flat struct {
	Points int64
}

type Promotion struct {
	StartTime time.Time
	EndTime   time.Time
	Reward    Reward
	MinSpend  decimal.Decimal
	Name      string
	Kind      Kind
	ID        int64
}

// ActiveAt reports whether at falls in [StartTime, EndTime).
func (p *Promotion) ActiveAt(at time.Time) bool {
	return !at.Before(p.StartTime) && at.Before(p.EndTime)
}

func (p *Promotion) Qualifies(spend decimal.Decimal) bool {
	return p.MinSpend.LessThanOrEqual(spend)
}

func (p *Promotion) IsOneTime() bool {
	return p.Kind == KindOneTime
}
