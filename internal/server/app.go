// Package server initializes and runs the backend maintenance daemon. It
// opens the database, runs migrations, wires the service layer, and runs
// the scheduled maintenance operations (registration-token cleanup and
// expired-trash purge) until signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sistahology/backend/internal/logging"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
	"github.com/sistahology/backend/internal/server/services"
)

const maintenanceInterval = time.Hour

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	tokenService *services.TokenService
	entryService *services.EntryService
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	ts := services.NewTokenService(db, rm, c)
	es := services.NewEntryService(db, rm, c)

	return &App{config: c, logger: logger, db: db, tokenService: ts, entryService: es}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) runMaintenance(ctx context.Context) {
	svc := authz.ServiceActor()

	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reaped, err := app.tokenService.CleanupExpired(ctx, svc)
			if err != nil {
				app.logger.Error(ctx, "token cleanup failed", "error", err)
			} else if reaped > 0 {
				app.logger.Info(ctx, "reaped expired registration tokens", "count", reaped)
			}

			purged, err := app.entryService.PurgeExpiredTrash(ctx, svc)
			if err != nil {
				app.logger.Error(ctx, "trash purge failed", "error", err)
			} else if purged > 0 {
				app.logger.Info(ctx, "purged expired trash entries", "count", purged)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runMaintenance(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
