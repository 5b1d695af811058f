package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

func TestPurchaseRequest_ToPurchase(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSpent string
		wantErr   error
	}{
		{"two fraction digits", `{"user_id":1,"spent":"120.50"}`, "120.5", nil},
		{"number literal", `{"user_id":1,"spent":42}`, "42", nil},
		{"largest storable", `{"user_id":1,"spent":"999999999999.99"}`, "999999999999.99", nil},
		{"three fraction digits", `{"user_id":1,"spent":"1.005"}`, "", serviceerrs.ErrInvalidAmount},
		{"beyond column", `{"user_id":1,"spent":"123456789012345678"}`, "", serviceerrs.ErrInvalidAmount},
		{"negative", `{"user_id":1,"spent":"-1"}`, "", serviceerrs.ErrInvalidAmount},
		{"missing", `{"user_id":1}`, "", serviceerrs.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PurchaseRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			got, err := req.ToPurchase(10)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantSpent).Equal(got.Spent))
			assert.Equal(t, int64(10), got.CreatedBy)
		})
	}
}

func TestPurchaseRequest_ToPurchase_joinsErrors(t *testing.T) {
	req := PurchaseRequest{Spent: "1.005", OrderNumber: "12345"}

	_, err := req.ToPurchase(10)
	require.ErrorIs(t, err, serviceerrs.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "user_id must be positive")
	assert.Contains(t, err.Error(), "invalid order number")
}
