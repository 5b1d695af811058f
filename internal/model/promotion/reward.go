package promotion

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/talx-hub/loyalty-ledger/internal/model"
)

func (r Rate) Bonus(spend decimal.Decimal) (int64, error) {
	return model.PointsFor(spend, r.Multiplier) //nolint: wrapcheck // error from wrapped function
}

func (Rate) isReward() {}

func (f Flat) Bonus(_ decimal.Decimal) (int64, error) {
	if f.Points < 0 {
		return 0, errors.New("flat reward must not be negative")
	}
	return f.Points, nil
}

func (Flat) isReward() {}

// NewReward builds the variant stored in a row with nullable rate and points
// columns; exactly one of them must be set.
func NewReward(rate *decimal.Decimal, points *int64) (Reward, error) {
	switch {
	case rate != nil && points == nil:
		return Rate{Multiplier: *rate}, nil
	case rate == nil && points != nil:
		return Flat{Points: *points}, nil
	}
	return nil, errors.New("promotion must have exactly one of rate or points")
}
