// Package server wires the upload-link server together: configuration,
// database and migrations, admin seeding, the storage backend, the HTTP
// API and the optional gRPC health endpoint, with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/filex"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
	"github.com/dmitrijs2005/linkdrop/internal/server/config"
	"github.com/dmitrijs2005/linkdrop/internal/server/httpapi"
	"github.com/dmitrijs2005/linkdrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkdrop/internal/server/services"
	"github.com/dmitrijs2005/linkdrop/internal/server/storage"

	gs "github.com/dmitrijs2005/linkdrop/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *http.Server
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	basePath, err := resolveBasePath(c.BasePath)
	if err != nil {
		return nil, fmt.Errorf("base path: %w", err)
	}

	if !repomanager.IsPostgresDSN(c.DatabaseDSN) {
		if dir := filepath.Dir(c.DatabaseDSN); dir != "." {
			if err := os.MkdirAll(dir, 0o770); err != nil {
				return nil, fmt.Errorf("db dir: %w", err)
			}
		}
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	us := services.NewUserService(db, rm, c, logger)
	n, err := us.Seed(ctx, c.Users)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed users: %w", err)
	}
	if n > 0 {
		logger.Info(ctx, "admin users created", "count", n)
	}

	ls := services.NewLinkService(db, rm, basePath, logger)

	store, err := newStore(ctx, c, basePath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	api := httpapi.NewServer(ls, us, store, httpapi.NewMetrics(), logger, httpapi.Options{
		MaxUploadSize: c.MaxUploadSize,
		PublicURL:     c.PublicURL,
	})

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		http: &http.Server{
			Addr:              c.HTTPAddr,
			Handler:           api.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if c.HealthAddr != "" {
		app.health = gs.NewHealthServer(c.HealthAddr, logger, db, 0)
	}

	logger.Info(ctx, "app initialized", "base_path", basePath, "storage", c.Storage, "database", driverName(c.DatabaseDSN))
	return app, nil
}

// resolveBasePath makes a relative base path absolute against the working
// directory and creates the directory when missing.
func resolveBasePath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filex.EnsureSubdDir(p)
	}
	if err := os.MkdirAll(p, 0o770); err != nil {
		return "", err
	}
	return p, nil
}

func newStore(ctx context.Context, c *config.Config, basePath string) (storage.Store, error) {
	switch c.Storage {
	case config.StorageS3:
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			BasePath:     basePath,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		return s, nil
	default:
		return storage.NewDiskStore(), nil
	}
}

func driverName(dsn string) string {
	if repomanager.IsPostgresDSN(dsn) {
		return "postgres"
	}
	return "sqlite"
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
		return
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "Stopping HTTP server...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.http.Shutdown(sctx); err != nil {
		app.logger.Error(sctx, "http shutdown", "error", err)
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a listener fails, then closes the
// database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHealthServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "close db", "error", err)
	}
	app.logger.Info(context.Background(), "app stopped")
}
