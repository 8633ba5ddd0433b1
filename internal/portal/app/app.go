package app

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

	httpapi "github.com/aussiebroadwan/barangay/internal/portal/http"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/mongo"
	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/barangay/pkg/cryptox"
	"github.com/aussiebroadwan/barangay/pkg/jwtx"
	"github.com/aussiebroadwan/barangay/pkg/qrx"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time with -ldflags.
	BuildVersion = "v0.1.0"

	mfaIssuer = "Barangay Portal"
)

// Application owns the portal's dependencies from startup to shutdown.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	metrics    *metrics.Metrics

	residentService   *service.ResidentService
	familyHeadService *service.FamilyHeadService
	accountService    *service.AccountService
	mfaService        *service.MFAService
	bootstrapService  *service.BootstrapService

	server *http.Server
	router *httpapi.Router
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "barangay-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(context.Background()); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (app *Application) Run() error {
	app.logger.Info("barangay portal starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"bootstrap_enabled", app.cfg.BootstrapToken != "",
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func (app *Application) Shutdown() error {
	app.logger.Info("shutting down barangay portal...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("barangay portal stopped")
	return nil
}

// initDatabase opens the configured driver and applies its schema.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.StoreDriver {
	case DriverSQLite:
		db, err = sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile))
	case DriverMongo:
		if app.cfg.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER is mongo")
		}
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		db, err = mongo.NewStore(connectCtx, app.cfg.MongoURI, app.cfg.MongoDatabase)
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", app.cfg.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database ready", "driver", app.cfg.StoreDriver)
	return nil
}

func (app *Application) initServices() {
	encoder := qrx.NewEncoder(app.cfg.QRSize)

	ids := &service.IDAllocator{
		Store:       app.db,
		YearlyReset: app.cfg.IDYearlyReset,
		Metrics:     app.metrics,
	}

	app.residentService = &service.ResidentService{
		Store: app.db,
		Gate:  &service.Gate{Metrics: app.metrics},
		IDs:   ids,
		QR: &service.QRGenerator{
			Store:   app.db,
			Encoder: encoder,
			Metrics: app.metrics,
		},
		Metrics: app.metrics,
	}
	app.familyHeadService = &service.FamilyHeadService{Store: app.db, IDs: ids}

	app.accountService = &service.AccountService{
		Store:     app.db,
		Signer:    app.keyManager.Signer,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTokenTTL,
		Metrics:   app.metrics,
	}
	app.mfaService = &service.MFAService{
		Accounts: app.accountService,
		Issuer:   mfaIssuer,
		Encoder:  encoder,
	}
	app.bootstrapService = &service.BootstrapService{
		Accounts: app.accountService,
		Token:    app.cfg.BootstrapToken,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.ResidentService = app.residentService
	router.FamilyHeadService = app.familyHeadService
	router.AccountService = app.accountService
	router.MFAService = app.mfaService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
