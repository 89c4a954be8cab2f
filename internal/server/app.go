// Package server initializes and runs the CarsAPI application: database,
// migrations, blob backend, token issuer, services, and the HTTP server,
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"carsapi/internal/logging"
	"carsapi/internal/server/auth"
	"carsapi/internal/server/blob"
	"carsapi/internal/server/config"
	"carsapi/internal/server/credstore"
	"carsapi/internal/server/httpapi"
	"carsapi/internal/server/repositories/repomanager"
	"carsapi/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	issuer, err := auth.NewIssuer(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var blobs blob.Store
	switch cfg.BlobBackend {
	case "s3":
		blobs = blob.NewS3Store(cfg)
	case "local":
		blobs = blob.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}

	creds := credstore.New(db, rm)

	identitySvc := services.NewIdentityService(creds, issuer, blobs, logger)
	carSvc := services.NewCarService(db, rm, blobs, logger)
	favoriteSvc := services.NewFavoriteService(db, rm)

	// The middleware re-reads the user on every request so role changes
	// apply without reissuing tokens.
	resolve := func(ctx context.Context, userID string) (services.Principal, error) {
		user, err := creds.FindByID(ctx, userID)
		if err != nil {
			return services.Principal{}, err
		}
		return services.Principal{ID: user.ID, Roles: user.Roles}, nil
	}

	srv := httpapi.NewServer(httpapi.Options{
		Config:    cfg,
		Logger:    logger,
		Identity:  identitySvc,
		Cars:      carSvc,
		Favorites: favoriteSvc,
		Blobs:     blobs,
		Verifier:  issuer,
		Resolve:   resolve,
	})

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
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

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
}
