package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/talx-hub/loyalty-ledger/internal/api/dto"
	"github.com/talx-hub/loyalty-ledger/internal/model"
)

type BalanceHandler struct {
	logger  *slog.Logger
	service BalanceService
}

func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	balance, err := h.service.Balance(ctx, userID)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusOK, dto.BalanceResponse{
		UserID: userID,
		Points: balance,
	})
}

type HealthHandler struct {
	logger  *slog.Logger
	checker HealthChecker
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), model.DefaultTimeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError,
			"storage is unreachable", slog.Any(model.KeyLoggerError, err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
