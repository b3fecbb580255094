// Package server initializes and runs the gophsnap server.
// It opens the shared snapshot store, wires the services on top of it,
// serves gRPC until a signal arrives and then backs up and closes the store.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophsnap/internal/dbx"
	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/server/config"
	"github.com/dmitrijs2005/gophsnap/internal/server/services"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"

	gs "github.com/dmitrijs2005/gophsnap/internal/server/grpc"
)

const shutdownBackupTimeout = 30 * time.Second

type App struct {
	config        *config.Config
	logger        logging.Logger
	store         *snapshot.Store
	userService   *services.UserService
	casinoService *services.CasinoService
	backupService *services.BackupService
}

// NewApp opens the snapshot store described by c and builds the services.
// With a restore key set, the named backup replaces the stored graph before
// anything is served. Log lines go to w as JSON.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {

	level, err := logging.ParseLevel(c.Settings.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSON(w, level)

	store, err := snapshot.Open(ctx, snapshot.Options{
		Path:        c.DatabasePath,
		Profiling:   c.EnableProfiling,
		Webserver:   c.Webserver,
		Settings:    c.Settings,
		BusyTimeout: c.BusyTimeout,
		Retry: dbx.RetryPolicy{
			MaxAttempts: c.BusyRetries,
			BaseDelay:   c.BusyRetryDelay,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{
		config:        c,
		logger:        logger,
		store:         store,
		userService:   services.NewUserService(store, c, logger),
		casinoService: services.NewCasinoService(store, logger),
	}
	if c.BackupEnabled || c.RestoreKey != "" {
		app.backupService = services.NewBackupService(store, c, logger)
	}

	if c.RestoreKey != "" {
		if err := app.backupService.Restore(ctx, c.RestoreKey); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("restore error: %w", err)
		}
	}
	return app, nil
}

// initSignalHandler cancels the run context on SIGINT, SIGTERM or SIGQUIT.
// The returned stop func unregisters the channel and waits for the
// watcher goroutine to exit.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) (stop func()) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	quit := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		case <-quit:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(quit)
		<-exited
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store, app.userService, app.casinoService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// shutdown uploads a backup when enabled and closes the store. It runs
// after the gRPC server has stopped, so no update is in flight.
func (app *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownBackupTimeout)
	defer cancel()

	if app.config.BackupEnabled {
		if _, err := app.backupService.Backup(ctx); err != nil {
			app.logger.Error(ctx, "shutdown backup failed", "error", err)
		}
	}

	if err := app.store.Close(); err != nil {
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	stopSignals := app.initSignalHandler(ctx, cancelFunc)
	defer stopSignals()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	return app.shutdown()
}
