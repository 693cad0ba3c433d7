package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadupoy/library-lending/internal/app"
	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/config"
	"github.com/nadupoy/library-lending/internal/storage/memory"
	"github.com/nadupoy/library-lending/internal/storage/postgres"
	"github.com/nadupoy/library-lending/internal/storage/sqlite"
	transporthttp "github.com/nadupoy/library-lending/internal/transport/http"
	"github.com/nadupoy/library-lending/migrations"
)

const (
	startupTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// storage bundles the repositories of one backend.
type storage struct {
	loans   app.LoanRepository
	catalog app.CatalogRepository
	ping    transporthttp.Pinger
	close   func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	if cfg.EnvFile != "" {
		logger.Info("loaded env file", slog.String("path", cfg.EnvFile))
	}
	for _, key := range cfg.Defaulted {
		logger.Debug("using default", slog.String("var", key))
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, err := openStorage(startupCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	clk := clock.NewSystem()
	ledger := app.NewLendingLedger(store.loans, store.catalog, clk,
		app.WithLoanPeriodDays(cfg.LoanPeriodDays),
		app.WithLogger(logger.With(slog.String("component", "ledger"))),
	)
	catalog := app.NewCatalogService(store.catalog)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Ledger:      ledger,
		Catalog:     catalog,
		Clock:       clk,
		Logger:      logger,
		Ping:        store.ping,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("api listening",
		slog.String("addr", server.Addr),
		slog.String("storage", cfg.Storage),
		slog.Int("loan_period_days", ledger.LoanPeriodDays()),
	)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
	return nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return storage{
			loans:   memory.NewLoanRepository(),
			catalog: memory.NewCatalogRepository(),
			close:   func() {},
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return storage{}, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("sqlite storage ready", slog.String("path", cfg.SQLitePath))
		return storage{
			loans:   sqlite.NewLoanRepository(db),
			catalog: sqlite.NewCatalogRepository(db),
			ping:    db.Ping,
			close:   func() { _ = db.Close() },
		}, nil

	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return storage{}, fmt.Errorf("connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return storage{}, fmt.Errorf("db ping: %w", err)
		}
		applied, err := migrations.Apply(ctx, pool)
		if err != nil {
			pool.Close()
			return storage{}, fmt.Errorf("apply migrations: %w", err)
		}
		for _, name := range applied {
			logger.Info("migration applied", slog.String("name", name))
		}
		return storage{
			loans:   postgres.NewLoanRepository(pool),
			catalog: postgres.NewCatalogRepository(pool),
			ping:    pool.Ping,
			close:   pool.Close,
		}, nil
	}
}
