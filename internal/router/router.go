package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talx-hub/loyalty-ledger/internal/api/middlewares"
	"github.com/talx-hub/loyalty-ledger/internal/config"
)

type CustomRouter struct {
	router *chi.Mux
	logger *slog.Logger
	cfg    *config.Config
}

func New(cfg *config.Config, log *slog.Logger) *CustomRouter {
	router := &CustomRouter{
		router: chi.NewRouter(),
		logger: log,
		cfg:    cfg,
	}

	return router
}

type TransactionHandler interface {
	PostPurchase(w http.ResponseWriter, r *http.Request)
	PostAdjustment(w http.ResponseWriter, r *http.Request)
	PostTransfer(w http.ResponseWriter, r *http.Request)
	PostRedemption(w http.ResponseWriter, r *http.Request)
	ProcessRedemption(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
}

type EventHandler interface {
	PostEventAward(w http.ResponseWriter, r *http.Request)
	GetEventBudget(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type HealthHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
}

type Handler interface {
	TransactionHandler
	EventHandler
	BalanceHandler
	HealthHandler
}

func (cr *CustomRouter) SetRouter(h Handler) {
	cr.router.Use(middleware.RequestID)
	cr.router.Use(middleware.Recoverer)
	cr.router.Use(middlewares.RequestLogger(cr.logger))
	cr.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cr.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	cr.router.Route("/api", func(r chi.Router) {
		r.Use(middlewares.Authentication([]byte(cr.cfg.SecretKey), cr.logger))

		r.Route("/transactions", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				r.Post("/purchase", h.PostPurchase)
				r.Post("/adjustment", h.PostAdjustment)
				r.Post("/transfer", h.PostTransfer)
				r.Post("/redemption", h.PostRedemption)
			})
			r.Patch("/{id}/processed", h.ProcessRedemption)
			r.Get("/", h.GetHistory)
		})

		r.Route("/events/{id}", func(r chi.Router) {
			r.With(middleware.AllowContentType("application/json")).
				Post("/awards", h.PostEventAward)
			r.Get("/budget", h.GetEventBudget)
		})

		r.Get("/users/{id}/balance", h.GetBalance)
	})
	cr.router.Get("/ping", h.Ping)
	cr.router.Handle("/metrics", promhttp.Handler())

	cr.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)
	})
}

func (cr *CustomRouter) GetRouter() *chi.Mux {
	return cr.router
}
