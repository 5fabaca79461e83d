package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"curator/internal/config"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/scanjob"
)

// Daemon coordinates the API server and scan jobs and enforces
// single-instance execution.
type Daemon struct {
	cfg          *config.Config
	logger       *slog.Logger
	store        *library.Store
	orchestrator *scanjob.Orchestrator

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	LibraryDBPath string
	LockFilePath  string
	ActiveJob     *library.ScanJob
	ItemCounts    map[library.ItemStatus]int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *library.Store, orchestrator *scanjob.Orchestrator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || orchestrator == nil {
		return nil, errors.New("daemon requires config, store, and orchestrator")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "curatord.lock")
	d := &Daemon{
		cfg:          cfg,
		logger:       logging.WithComponent(logger, "daemon"),
		store:        store,
		orchestrator: orchestrator,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}

	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = server
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
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
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("curator daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server, cancels in-flight scans, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
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

// StartScan triggers a scan of root. Returns library.ErrJobRunning when a
// scan is already in progress. The scan itself runs on the daemon context so
// it survives the triggering request.
func (d *Daemon) StartScan(root string) (*library.ScanJob, error) {
	ctx := d.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return d.orchestrator.Start(ctx, root)
}

// GetJob returns a scan job by identifier, or nil when unknown.
func (d *Daemon) GetJob(ctx context.Context, id string) (*library.ScanJob, error) {
	return d.store.GetJob(ctx, id)
}

// ListJobs returns scan jobs from newest to oldest.
func (d *Daemon) ListJobs(ctx context.Context) ([]*library.ScanJob, error) {
	return d.store.ListJobs(ctx)
}

// ListItems returns library items filtered by optional statuses.
func (d *Daemon) ListItems(ctx context.Context, statuses ...library.ItemStatus) ([]*library.Item, error) {
	return d.store.ListItems(ctx, statuses...)
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		LibraryDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
	}
	if job, err := d.store.RunningJob(ctx); err == nil {
		status.ActiveJob = job
	} else {
		d.logger.Warn("failed to read active job", logging.Error(err))
	}
	if counts, err := d.store.CountItems(ctx); err == nil {
		status.ItemCounts = counts
	} else {
		d.logger.Warn("failed to count items", logging.Error(err))
	}
	return status
}
