package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talx-hub/loyalty-ledger/internal/api/dto"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

type TransactionHandler struct {
	logger  *slog.Logger
	service TransactionService
}

func (h *TransactionHandler) PostPurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := actingUserID(ctx)
	if err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}
	var req dto.PurchaseRequest
	if err = decode(r, &req); err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}
	p, err := req.ToPurchase(actor)
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	t, err := h.service.CreatePurchase(ctx, p)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusCreated, t)
}

func (h *TransactionHandler) PostAdjustment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := actingUserID(ctx)
	if err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}
	var req dto.AdjustmentRequest
	if err = decode(r, &req); err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}
	a, err := req.ToAdjustment(actor)
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	t, err := h.service.CreateAdjustment(ctx, a)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusCreated, t)
}

func (h *TransactionHandler) PostTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := actingUserID(ctx)
	if err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}
	var req dto.TransferRequest
	if err = decode(r, &req); err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}
	tr, err := req.ToTransfer(actor)
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	t, err := h.service.CreateTransfer(ctx, tr)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusCreated, t)
}

func (h *TransactionHandler) PostRedemption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := actingUserID(ctx)
	if err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}
	var req dto.RedemptionRequest
	if err = decode(r, &req); err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	t, err := h.service.CreateRedemptionRequest(ctx, req.ToRedemption(actor))
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusCreated, t)
}

func (h *TransactionHandler) ProcessRedemption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := actingUserID(ctx)
	if err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}

	t, err := h.service.Process(ctx, chi.URLParam(r, "id"), actor)
	if errors.Is(err, serviceerrs.ErrAlreadyProcessed) {
		serviceError(ctx, w, h.logger, err, &t)
		return
	}
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusOK, t)
}

func (h *TransactionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := actingUserID(ctx); err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	list, err := h.service.History(ctx, f)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	if len(list) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusOK, list)
}

func parseFilter(r *http.Request) (bonus.Filter, error) {
	q := r.URL.Query()
	var f bonus.Filter
	var userErr, fromErr, toErr error
	if raw := q.Get("user_id"); raw != "" {
		f.UserID, userErr = strconv.ParseInt(raw, 10, 64)
		if userErr != nil {
			userErr = errors.New("invalid user_id " + strconv.Quote(raw))
		}
	}
	if raw := q.Get("from"); raw != "" {
		f.From, fromErr = time.Parse(time.RFC3339, raw)
	}
	if raw := q.Get("to"); raw != "" {
		f.To, toErr = time.Parse(time.RFC3339, raw)
	}
	f.Kind = bonus.Kind(q.Get("type"))
	if err := errors.Join(userErr, fromErr, toErr); err != nil {
		return bonus.Filter{}, err
	}
	return f, nil
}
