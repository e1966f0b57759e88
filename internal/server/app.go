// Package server initializes and runs the tenant gate: it opens the
// database, runs migrations, bootstraps the privileged tenant, and keeps the
// services alive until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tenantgate/tenantgate/internal/logging"
	"github.com/tenantgate/tenantgate/internal/server/config"
	"github.com/tenantgate/tenantgate/internal/server/multitenancy"
	"github.com/tenantgate/tenantgate/internal/server/repositories/repomanager"
	"github.com/tenantgate/tenantgate/internal/server/services"
	"github.com/tenantgate/tenantgate/internal/server/wallets"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager

	Tokens       *services.TokenService
	Provisioner  *services.ProvisioningService
	Reservations *services.ReservationService
	ApiKeys      *services.ApiKeyService
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	walletStore := wallets.NewMemoryStore()

	tokens := services.NewTokenService(db, repos, walletStore, cfg, logger)

	provider, err := multitenancy.NewProvider(multitenancy.ProviderKind(cfg.ProviderKind), walletStore, tokens)
	if err != nil {
		return nil, err
	}

	provisioner := services.NewProvisioningService(db, repos, walletStore, provider, logger)

	return &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		repos:        repos,
		Tokens:       tokens,
		Provisioner:  provisioner,
		Reservations: services.NewReservationService(db, repos, provisioner, cfg, logger),
		ApiKeys:      services.NewApiKeyService(db, repos, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "err", err)
		return
	}

	if _, err := app.Provisioner.BootstrapPrivileged(ctx, app.config); err != nil {
		app.logger.Error(ctx, "bootstrap error", "err", err)
		return
	}
	app.logger.Info(ctx, "privileged tenant ready")

	<-ctx.Done()

	app.logger.Info(ctx, "Shutting down...")
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
}
