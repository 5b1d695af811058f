package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/talx-hub/loyalty-ledger/internal/api/handlers"
	"github.com/talx-hub/loyalty-ledger/internal/config"
	"github.com/talx-hub/loyalty-ledger/internal/dbmanager"
	"github.com/talx-hub/loyalty-ledger/internal/model"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/repo"
	"github.com/talx-hub/loyalty-ledger/internal/repo/memory"
	"github.com/talx-hub/loyalty-ledger/internal/router"
	"github.com/talx-hub/loyalty-ledger/internal/utils/logger"
	"github.com/talx-hub/loyalty-ledger/internal/utils/metrics"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type storage interface {
	points.Store
	handlers.HealthChecker
}

type app struct {
	router    *chi.Mux
	snapshots *points.Snapshotter
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger,
) (storage, func(), error) {
	if cfg.DatabaseURI == "" {
		log.LogAttrs(ctx, slog.LevelWarn,
			"DATABASE_URI is not set, ledger is kept in memory")
		return memory.New(cfg.LockTimeout), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	dbManager := dbmanager.New(cfg.DatabaseURI, log).
		Connect(ctx).
		ApplyMigrations(ctx).
		Ping(ctx)
	if err := dbManager.Error(); err != nil {
		dbManager.Close()
		return nil, nil, fmt.Errorf("db connection error: %w", err)
	}

	pool, err := dbManager.GetPool(ctx)
	if err != nil {
		dbManager.Close()
		return nil, nil, fmt.Errorf("failed to get DB pool: %w", err)
	}
	return repo.NewStore(pool, log, cfg.LockTimeout), dbManager.Close, nil
}

func initService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	rate, err := cfg.EarnRate()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.Ledger()
	snapshots := points.NewSnapshotter(store, log, m, cfg.SnapshotBuffer)
	ledger := points.New(store, log,
		points.WithEarnRate(rate),
		points.WithSnapshots(snapshots),
		points.WithMetrics(m),
	)

	rr := router.New(cfg, log)
	rr.SetRouter(handlers.New(ledger, store, log))

	return &app{
		router:    rr.GetRouter(),
		snapshots: snapshots,
		close:     closeStore,
	}, nil
}

// serve runs the HTTP server and the snapshot writer until ctx is done.
func (a *app) serve(ctx context.Context, ln net.Listener, log *slog.Logger) error {
	snapCtx, stopSnapshots := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.snapshots.Run(snapCtx)
	}()
	defer func() {
		stopSnapshots()
		wg.Wait()
		a.close()
	}()

	srv := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logger.WithContext(context.Background(), log)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.LogAttrs(ctx, slog.LevelInfo, "server started",
		slog.String("address", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server: %w", err)
	}
	log.LogAttrs(ctx, slog.LevelInfo, "server stopped")
	return nil
}

func RunServer() error {
	_ = godotenv.Load()

	cfg := config.NewBuilder(slog.Default()).
		FromEnv().
		FromFlags().
		GetConfig()
	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat, cfg.LogFile).
		With("service", "loyalty-ledger")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := initService(ctx, cfg, log)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError,
			"failed to init service",
			slog.Any(model.KeyLoggerError, err))
		return err
	}

	ln, err := net.Listen("tcp", cfg.RunAddr)
	if err != nil {
		a.close()
		return fmt.Errorf("failed to listen on %s: %w", cfg.RunAddr, err)
	}
	if err = a.serve(ctx, ln, log); err != nil {
		log.LogAttrs(ctx, slog.LevelError,
			"server failed",
			slog.Any(model.KeyLoggerError, err))
		return err
	}
	return nil
}
