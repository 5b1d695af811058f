package model

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

const (
	maxSpendScale = 2
	// spent is stored as NUMERIC(14, 2).
	maxSpendIntDigits = 12
)

var (
	maxPoints = decimal.NewFromInt(math.MaxInt64)
	maxSpend  = decimal.New(1, maxSpendIntDigits)
)

// ParseSpend parses a currency amount with at most two fraction digits.
func ParseSpend(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New("spend must be a decimal number")
	}
	if err = CheckSpend(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckSpend reports whether d can be stored as a spend without rounding.
func CheckSpend(d decimal.Decimal) error {
	if d.Sign() < 0 {
		return errors.New("spend must be positive")
	}
	if !d.Equal(d.Truncate(maxSpendScale)) {
		return errors.New("spend has more than two fraction digits")
	}
	if d.GreaterThanOrEqual(maxSpend) {
		return errors.New("spend is too large")
	}
	return nil
}

// PointsFor returns floor(spend * rate).
func PointsFor(spend, rate decimal.Decimal) (int64, error) {
	if spend.Sign() < 0 || rate.Sign() < 0 {
		return 0, errors.New("spend and rate must not be negative")
	}
	p := spend.Mul(rate).Floor()
	if p.GreaterThan(maxPoints) {
		return 0, errors.New("points overflow")
	}
	return p.IntPart(), nil
}

// AddPoints sums point amounts, failing instead of wrapping around.
func AddPoints(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errors.New("points overflow")
	}
	return a + b, nil
}

// MulPoints multiplies a per-guest amount by a guest count.
func MulPoints(amount int64, n int) (int64, error) {
	if n < 0 || amount < 0 {
		return 0, errors.New("negative operand")
	}
	if n != 0 && amount > math.MaxInt64/int64(n) {
		return 0, errors.New("points overflow")
	}
	return amount * int64(n), nil
}
