// Package server wires the HeroWall server together: it picks a storage
// backend, runs migrations, builds the services and serves the HTTP API
// plus the gRPC health endpoint until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"github.com/dmitrijs2005/herowall/internal/server/auth"
	"github.com/dmitrijs2005/herowall/internal/server/config"
	"github.com/dmitrijs2005/herowall/internal/server/httpapi"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/memory"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/herowall/internal/server/services"

	gs "github.com/dmitrijs2005/herowall/internal/server/grpc"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	store   dbx.Pinger
	handler http.Handler
}

// NewApp builds the application from c, logging JSON lines to out. An empty
// DatabaseDSN selects the in-memory store.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {

	logger := logging.NewJSONLogger(out, c.LogLevel)

	if c.SharedTokenSecrets() {
		logger.Warn(ctx, "access and refresh tokens share a signing secret")
	}

	app := &App{config: c, logger: logger}

	var (
		manager repomanager.RepositoryManager
		conn    dbx.DBTX
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, using in-memory store")
		store := memory.NewStore()
		manager = repomanager.NewMemoryRepositoryManager(store)
		app.store = store
	} else {
		db, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		manager = repomanager.NewPostgresRepositoryManager()
		if err := manager.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}

		app.db = db
		app.store = db
		conn = db
	}

	issuer := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshSecret: []byte(c.RefreshTokenSecret),
		RefreshTTL:    c.RefreshTokenValidityDuration,
	})
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	app.handler = httpapi.NewRouter(httpapi.Dependencies{
		Guard:         auth.NewGuard(issuer),
		Users:         services.NewUserService(conn, manager, issuer, hasher, logger),
		Cards:         services.NewCardService(conn, manager, logger),
		Collections:   services.NewCollectionService(conn, manager, logger),
		Images:        services.NewImageService(c, logger),
		Store:         app.store,
		Logger:        logger,
		AuthRateLimit: c.AuthRateLimit,
		AuthRateBurst: c.AuthRateBurst,

		TrustProxyHeaders: c.TrustProxyHeaders,
	})

	return app, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one
// of the servers fails. It then drains both servers and closes the
// database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
