package handlers

import (
	"log/slog"
	"net/http"

	"github.com/talx-hub/loyalty-ledger/internal/api/dto"
)

type EventHandler struct {
	logger  *slog.Logger
	service EventService
}

func (h *EventHandler) PostEventAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := actingUserID(ctx)
	if err != nil {
		unauthorized(ctx, w, h.logger)
		return
	}
	eventID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}
	var req dto.EventAwardRequest
	if err = decode(r, &req); err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}
	award, err := req.ToEventAward(eventID, actor)
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	list, err := h.service.CreateEventAward(ctx, award)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusCreated, list)
}

func (h *EventHandler) GetEventBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(ctx, w, h.logger, err)
		return
	}

	remaining, err := h.service.EventBudget(ctx, eventID)
	if err != nil {
		serviceError(ctx, w, h.logger, err, nil)
		return
	}
	writeJSON(ctx, w, h.logger, http.StatusOK, dto.BudgetResponse{
		EventID:   eventID,
		Remaining: remaining,
	})
}
