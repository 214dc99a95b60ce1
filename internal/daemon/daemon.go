package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"curator/internal/config"
	"curator/internal/enrich"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/preflight"
)

// Daemon coordinates the background enrichment services and enforces
// single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *library.Store
	jobs       *enrich.Store
	controller *enrich.Controller

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
	ActiveJob    *enrich.Job
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *library.Store, jobs *enrich.Store, controller *enrich.Controller, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || jobs == nil || controller == nil {
		return nil, errors.New("daemon requires config, store, job store, and controller")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "curatord.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		jobs:       jobs,
		controller: controller,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, recovers interrupted jobs, and brings up
// the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another curator daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	recovered, err := d.jobs.RecoverStale(d.ctx)
	if err != nil {
		d.releaseLock()
		d.cancel()
		d.ctx, d.cancel = nil, nil
		return fmt.Errorf("recover stale jobs: %w", err)
	}
	if recovered > 0 {
		d.logger.Warn("marked interrupted jobs as failed", logging.Int64("count", recovered))
	}

	for _, result := range preflight.RunAll(d.ctx, d.cfg) {
		if result.Passed {
			d.logger.Debug("preflight check passed", logging.String("check", result.Name))
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}

	if err := d.api.start(d.ctx); err != nil {
		d.releaseLock()
		d.cancel()
		d.ctx, d.cancel = nil, nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("curator daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.store.Path()))
	return nil
}

// Stop cancels any active job, waits for the driver to finish, and releases
// the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if active := d.controller.ActiveJob(); active != nil {
		if _, err := d.controller.Cancel(context.Background(), active.ID); err != nil {
			d.logger.Warn("failed to cancel active job on shutdown", logging.Error(err))
		}
		d.controller.Wait()
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.releaseLock()
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("curator daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Controller exposes the job controller to the IPC layer.
func (d *Daemon) Controller() *enrich.Controller {
	return d.controller
}

// Library exposes the item store to the IPC layer.
func (d *Daemon) Library() *library.Store {
	return d.store
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	return d.cfg
}

// APIAddr reports the bound HTTP API address, empty until started.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		ActiveJob:    d.controller.ActiveJob(),
	}
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}
