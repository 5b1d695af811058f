package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotion_ActiveAt(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	p := Promotion{StartTime: start, EndTime: end}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"at start", start, true},
		{"inside", start.Add(time.Hour), true},
		{"at end", end, false},
		{"after end", end.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ActiveAt(tt.at))
		})
	}
}

func TestPromotion_Qualifies(t *testing.T) {
	p := Promotion{MinSpend: decimal.NewFromInt(10)}
	assert.True(t, p.Qualifies(decimal.NewFromInt(10)))
	assert.True(t, p.Qualifies(decimal.NewFromInt(50)))
	assert.False(t, p.Qualifies(decimal.RequireFromString("9.99")))
}

func TestReward_Bonus(t *testing.T) {
	tests := []struct {
		name    string
		reward  Reward
		spend   string
		want    int64
		wantErr bool
	}{
		{"flat ignores spend", Flat{Points: 20}, "50", 20, false},
		{"rate floors", Rate{Multiplier: decimal.RequireFromString("0.01")}, "250", 2, false},
		{"rate on small spend", Rate{Multiplier: decimal.RequireFromString("0.01")}, "99", 0, false},
		{"negative flat", Flat{Points: -1}, "1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.reward.Bonus(decimal.RequireFromString(tt.spend))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewReward(t *testing.T) {
	rate := decimal.RequireFromString("0.5")
	points := int64(7)

	r, err := NewReward(&rate, nil)
	require.NoError(t, err)
	assert.Equal(t, Rate{Multiplier: rate}, r)

	r, err = NewReward(nil, &points)
	require.NoError(t, err)
	assert.Equal(t, Flat{Points: 7}, r)

	_, err = NewReward(&rate, &points)
	require.Error(t, err)

	_, err = NewReward(nil, nil)
	require.Error(t, err)
}
