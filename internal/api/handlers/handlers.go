package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talx-hub/loyalty-ledger/internal/api/dto"
	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/model/bonus"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
	"github.com/talx-hub/loyalty-ledger/internal/utils/logger"
)

type TransactionService interface {
	CreatePurchase(ctx context.Context, p points.Purchase) (bonus.Transaction, error)
	CreateAdjustment(ctx context.Context, a points.Adjustment) (bonus.Transaction, error)
	CreateTransfer(ctx context.Context, tr points.Transfer) (bonus.Transaction, error)
	CreateRedemptionRequest(ctx context.Context, r points.RedemptionRequest) (bonus.Transaction, error)
	Process(ctx context.Context, transactionID string, processorID int64) (bonus.Transaction, error)
	History(ctx context.Context, f bonus.Filter) ([]bonus.Transaction, error)
}

type EventService interface {
	CreateEventAward(ctx context.Context, a points.EventAward) ([]bonus.Transaction, error)
	EventBudget(ctx context.Context, eventID int64) (int64, error)
}

type BalanceService interface {
	Balance(ctx context.Context, userID int64) (int64, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HTTPHandler serves every ledger route.
type HTTPHandler struct {
	*TransactionHandler
	*EventHandler
	*BalanceHandler
	*HealthHandler
}

func New(svc *points.Service, checker HealthChecker, log *slog.Logger) *HTTPHandler {
	return &HTTPHandler{
		TransactionHandler: &TransactionHandler{logger: log, service: svc},
		EventHandler:       &EventHandler{logger: log, service: svc},
		BalanceHandler:     &BalanceHandler{logger: log, service: svc},
		HealthHandler:      &HealthHandler{logger: log, checker: checker},
	}
}

var errNoActingUser = errors.New("no authenticated user in request context")

func actingUserID(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(model.KeyContextUserID).(int64)
	if !ok || id <= 0 {
		return 0, errNoActingUser
	}
	return id, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name + " " + strconv.Quote(raw))
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("failed to decode request body: " + err.Error())
	}
	return nil
}

// requestLog prefers the request-scoped logger installed by the router.
func requestLog(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx.Value(model.KeyContextLogger) == nil {
		return fallback
	}
	return logger.FromContext(ctx)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, log *slog.Logger, code int, v any) {
	w.Header().Set(model.HeaderContentType, "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLog(ctx, log).LogAttrs(ctx, slog.LevelError,
			"failed to encode response",
			slog.Any(model.KeyLoggerError, err))
	}
}

func badRequest(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	requestLog(ctx, log).LogAttrs(ctx, slog.LevelDebug,
		"bad request", slog.Any(model.KeyLoggerError, err))
	writeJSON(ctx, w, log, http.StatusBadRequest, dto.ErrorResponse{
		Error: err.Error(),
		Kind:  "bad_request",
	})
}

func unauthorized(ctx context.Context, w http.ResponseWriter, log *slog.Logger) {
	writeJSON(ctx, w, log, http.StatusUnauthorized, dto.ErrorResponse{
		Error: errNoActingUser.Error(),
		Kind:  "unauthorized",
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, serviceerrs.ErrInvalidAmount),
		errors.Is(err, serviceerrs.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, serviceerrs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serviceerrs.ErrPromotionAlreadyUsed),
		errors.Is(err, serviceerrs.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, serviceerrs.ErrInsufficientBalance),
		errors.Is(err, serviceerrs.ErrPromotionNotApplicable),
		errors.Is(err, serviceerrs.ErrEventBudgetExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, serviceerrs.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// serviceError writes err with the status of its kind. Internal errors are
// not echoed to the client.
func serviceError(ctx context.Context, w http.ResponseWriter, log *slog.Logger,
	err error, record *bonus.Transaction,
) {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		requestLog(ctx, log).LogAttrs(ctx, slog.LevelError,
			"request failed", slog.Any(model.KeyLoggerError, err))
		msg = http.StatusText(code)
	}
	if serviceerrs.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(ctx, w, log, code, dto.ErrorResponse{
		Transaction: record,
		Error:       msg,
		Kind:        serviceerrs.Kind(err),
	})
}
