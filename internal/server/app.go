// Package server initializes and runs the vault server: it selects the
// storage backend, wires the item service into the HTTP API and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/q42jaap/opvault/internal/auth"
	"github.com/q42jaap/opvault/internal/blobs"
	"github.com/q42jaap/opvault/internal/items"
	"github.com/q42jaap/opvault/internal/logging"
	"github.com/q42jaap/opvault/internal/secret"
	"github.com/q42jaap/opvault/internal/server/config"
	"github.com/q42jaap/opvault/internal/server/httpapi"
	"github.com/q42jaap/opvault/internal/vault"
	"github.com/q42jaap/opvault/internal/vault/inmemory"
	"github.com/q42jaap/opvault/internal/vault/postgres"
	"github.com/q42jaap/opvault/internal/vault/sqlite"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
	db      *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := logging.NewZapLogger(zl.Sugar())

	store, db, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	opts := []items.Option{items.WithEditor(c.AccountID)}
	if c.S3Bucket != "" {
		opts = append(opts, items.WithBlobStore(blobs.NewS3Store(blobs.Config{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})))
	}
	svc := items.NewService(store, secret.NewGenerator(), logger, opts...)

	secretHash, err := auth.HashSecret(c.AccountSecret)
	if err != nil {
		return nil, fmt.Errorf("account secret error: %w", err)
	}

	router := httpapi.NewRouter(httpapi.RouterOptions{
		Items:             svc,
		Logger:            logger,
		SecretKey:         []byte(c.SecretKey),
		AccountID:         c.AccountID,
		AccountSecretHash: secretHash,
		TokenValidity:     c.TokenValidityDuration,
	})

	return &App{config: c, logger: logger, handler: router, db: db}, nil
}

func openStore(ctx context.Context, c *config.Config) (vault.Store, *sql.DB, error) {
	switch c.StorageDriver {
	case config.DriverMemory:
		return inmemory.NewStore(), nil, nil
	case config.DriverSQLite:
		store, db, err := sqlite.Open(ctx, c.DatabaseDSN)
		return store, db, err
	case config.DriverPostgres:
		store, db, err := postgres.Open(ctx, c.DatabaseDSN)
		return store, db, err
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	server := &http.Server{Addr: app.config.EndpointAddr, Handler: app.handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.EndpointAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
}
