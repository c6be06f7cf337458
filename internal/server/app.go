// Package server wires the users REST server: storage backend and
// migrations, the users service, metrics, the login rate limiter and the
// HTTP listener with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server/config"
	"github.com/dmitrijs2005/promptmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/promptmanager/internal/server/metrics"
	"github.com/dmitrijs2005/promptmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/promptmanager/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	limiter *httpapi.RateLimiter
	handler http.Handler
}

// openDB connects to Postgres through the pgx stdlib driver and checks
// the connection.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// NewApp builds the server. An empty DatabaseDSN keeps users in memory.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		db *sql.DB
		m  repomanager.RepositoryManager
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, users are kept in memory")
		m = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = openDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		m = repomanager.NewPostgresRepositoryManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	var limiter *httpapi.RateLimiter
	if c.LoginRatePerMinute > 0 {
		limiter = httpapi.NewRateLimiter(httpapi.LoginRateLimiterConfig(c.LoginRatePerMinute), logger, collector)
	}

	users := services.NewUserService(db, m, c, logger)

	handler := httpapi.NewRouter(httpapi.RouterDeps{
		Users:        users,
		Logger:       logger,
		Metrics:      collector,
		Gatherer:     reg,
		LoginLimiter: limiter,
	})

	return &App{config: c, logger: logger, db: db, limiter: limiter, handler: handler}, nil
}

func (app *App) Handler() http.Handler {
	return app.handler
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to ShutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ln, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddrHTTP, err)
	}

	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	app.logger.Info(ctx, "server started", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the rate limiter and the database.
func (app *App) Close() error {
	if app.limiter != nil {
		app.limiter.Stop()
	}
	if app.db != nil {
		return app.db.Close()
	}
	return nil
}
