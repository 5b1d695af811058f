package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShiraazMoollatjie/goluhn"

	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

type PurchaseRequest struct {
	Spent        json.Number `json:"spent"`
	OrderNumber  string      `json:"order_number,omitempty"`
	Remark       string      `json:"remark,omitempty"`
	PromotionIDs []int64     `json:"promotion_ids,omitempty"`
	UserID       int64       `json:"user_id"`
}

func (r *PurchaseRequest) ToPurchase(actingUserID int64) (points.Purchase, error) {
	var userErr, orderErr error
	if r.UserID <= 0 {
		userErr = errors.New("user_id must be positive")
	}
	if r.OrderNumber != "" {
		orderErr = checkOrderNumber(r.OrderNumber)
	}
	spent, spentErr := model.ParseSpend(r.Spent.String())
	if spentErr != nil {
		spentErr = fmt.Errorf("%w: spent %q: %w", serviceerrs.ErrInvalidAmount, r.Spent, spentErr)
	}
	if err := errors.Join(userErr, orderErr, spentErr); err != nil {
		return points.Purchase{}, err
	}

	return points.Purchase{
		Spent:        spent,
		Remark:       r.Remark,
		OrderNumber:  r.OrderNumber,
		PromotionIDs: r.PromotionIDs,
		UserID:       r.UserID,
		CreatedBy:    actingUserID,
	}, nil
}

func checkOrderNumber(number string) error {
	if err := goluhn.Validate(number); err != nil {
		return fmt.Errorf("invalid order number %q: %w", number, err)
	}
	return nil
}

type AdjustmentRequest struct {
	RelatedID string `json:"related_id,omitempty"`
	Remark    string `json:"remark,omitempty"`
	UserID    int64  `json:"user_id"`
	Amount    int64  `json:"amount"`
}

func (r *AdjustmentRequest) ToAdjustment(actingUserID int64) (points.Adjustment, error) {
	if r.UserID <= 0 {
		return points.Adjustment{}, errors.New("user_id must be positive")
	}
	return points.Adjustment{
		RelatedID: r.RelatedID,
		Remark:    r.Remark,
		UserID:    r.UserID,
		CreatedBy: actingUserID,
		Amount:    r.Amount,
	}, nil
}

type TransferRequest struct {
	Remark      string `json:"remark,omitempty"`
	RecipientID int64  `json:"recipient_id"`
	Amount      int64  `json:"amount"`
}

func (r *TransferRequest) ToTransfer(actingUserID int64) (points.Transfer, error) {
	if r.RecipientID <= 0 {
		return points.Transfer{}, errors.New("recipient_id must be positive")
	}
	return points.Transfer{
		Remark:      r.Remark,
		SenderID:    actingUserID,
		RecipientID: r.RecipientID,
		Amount:      r.Amount,
	}, nil
}

type RedemptionRequest struct {
	Remark string `json:"remark,omitempty"`
	Amount int64  `json:"amount"`
}

func (r *RedemptionRequest) ToRedemption(actingUserID int64) points.RedemptionRequest {
	return points.RedemptionRequest{
		Remark: r.Remark,
		UserID: actingUserID,
		Amount: r.Amount,
	}
}

type EventAwardRequest struct {
	Remark string `json:"remark,omitempty"`
	// UserID 0 awards every guest of the event.
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

func (r *EventAwardRequest) ToEventAward(eventID, actingUserID int64) (points.EventAward, error) {
	if r.UserID < 0 {
		return points.EventAward{}, errors.New("user_id must not be negative")
	}
	return points.EventAward{
		Remark:    r.Remark,
		EventID:   eventID,
		CreatedBy: actingUserID,
		UserID:    r.UserID,
		Amount:    r.Amount,
	}, nil
}

type BalanceResponse struct {
	UserID int64 `json:"user_id"`
	Points int64 `json:"points"`
}

type BudgetResponse struct {
	EventID   int64 `json:"event_id"`
	Remaining int64 `json:"remaining"`
}

type ErrorResponse struct {
	Transaction *bonus.Transaction `json:"transaction,omitempty"`
	Error       string             `json:"error"`
	Kind        string             `json:"kind"`
}
