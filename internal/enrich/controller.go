package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"curator/internal/library"
	"curator/internal/logging"
)

// Control-surface errors.
var (
	// ErrJobActive rejects a start while another job holds the active slot.
	ErrJobActive = errors.New("an enrichment job is already active")
	// ErrJobNotFound reports an unknown job id.
	ErrJobNotFound = errors.New("enrichment job not found")
	// ErrInvalidTransition rejects pause/resume/cancel calls that the job's
	// current state does not admit.
	ErrInvalidTransition = errors.New("invalid job state transition")
	// ErrItemNotFound reports an unknown library item id.
	ErrItemNotFound = errors.New("library item not found")
)

// Settings tunes the driver loop.
type Settings struct {
	// ItemDelay is the pause between items, giving local services breathing room.
	ItemDelay time.Duration
}

// Controller owns the single-active-job slot and the control surface.
// Side effects are confined to job state; the library store is only touched
// through the pipeline.
type Controller struct {
	jobs     *Store
	library  *library.Store
	pipeline *Pipeline
	settings Settings
	logger   *slog.Logger

	mu     sync.Mutex
	active *run
}

// run pairs an in-flight job with its control token. job is guarded by jobMu.
type run struct {
	jobMu sync.Mutex
	job   *Job
	token *controlToken
	done  chan struct{}
}

func (r *run) snapshot() *Job {
	r.jobMu.Lock()
	defer r.jobMu.Unlock()
	return r.job.Clone()
}

// JobView is one status read: the job snapshot plus derived progress fields.
type JobView struct {
	Job      *Job     `json:"job"`
	Estimate Estimate `json:"estimate"`
}

// NewController wires the control surface.
func NewController(jobs *Store, lib *library.Store, pipeline *Pipeline, settings Settings, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		jobs:     jobs,
		library:  lib,
		pipeline: pipeline,
		settings: settings,
		logger:   logger,
	}
}

// Start validates the options, claims the active slot, and hands the new job
// to the driver loop. The slot claim is a compare-and-set under the
// controller mutex, not a scan over job history.
func (c *Controller) Start(ctx context.Context, opts Options) (*Job, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Options:   opts,
		CreatedAt: now,
	}
	newRun := &run{
		job:   job,
		token: newControlToken(),
		done:  make(chan struct{}),
	}

	c.mu.Lock()
	if c.active != nil {
		if snapshot := c.active.snapshot(); snapshot.Status.Active() {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: job %s is %s", ErrJobActive, snapshot.ID, snapshot.Status)
		}
	}
	c.active = newRun
	c.mu.Unlock()

	if err := c.jobs.Insert(ctx, job); err != nil {
		c.release(newRun)
		return nil, err
	}

	c.logger.Info("enrichment job created",
		logging.String(logging.FieldJobID, job.ID),
		logging.Any("options", opts))
	go c.drive(newRun)

	return job.Clone(), nil
}

// Status returns the job snapshot plus the estimator's derived fields.
func (c *Controller) Status(ctx context.Context, id string) (*JobView, error) {
	job, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return &JobView{Job: job, Estimate: EstimateProgress(job, time.Now().UTC())}, nil
}

// List returns all known jobs, newest first.
func (c *Controller) List(ctx context.Context) ([]*Job, error) {
	jobs, err := c.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	// The active run's in-memory state is fresher than its persisted row.
	if active := c.activeRun(); active != nil {
		snapshot := active.snapshot()
		for i, job := range jobs {
			if job.ID == snapshot.ID {
				jobs[i] = snapshot
				break
			}
		}
	}
	return jobs, nil
}

// Pause requests a cooperative pause. Only meaningful while running; the
// driver honors it at the next item boundary.
func (c *Controller) Pause(ctx context.Context, id string) (*Job, error) {
	active := c.activeRun()
	if active == nil {
		return nil, c.transitionError(ctx, id, "pause")
	}
	snapshot := active.snapshot()
	if snapshot.ID != id {
		return nil, c.transitionError(ctx, id, "pause")
	}
	if snapshot.Status != StatusRunning {
		return nil, fmt.Errorf("%w: cannot pause a %s job", ErrInvalidTransition, snapshot.Status)
	}
	active.token.RequestPause()
	c.logger.Info("pause requested", logging.String(logging.FieldJobID, id))
	return active.snapshot(), nil
}

// Resume lifts a pause. Valid only from paused.
func (c *Controller) Resume(ctx context.Context, id string) (*Job, error) {
	active := c.activeRun()
	if active == nil {
		return nil, c.transitionError(ctx, id, "resume")
	}
	snapshot := active.snapshot()
	if snapshot.ID != id {
		return nil, c.transitionError(ctx, id, "resume")
	}
	paused, _, _ := active.token.State()
	if snapshot.Status != StatusPaused && !paused {
		return nil, fmt.Errorf("%w: cannot resume a %s job", ErrInvalidTransition, snapshot.Status)
	}
	active.token.RequestResume()
	c.logger.Info("resume requested", logging.String(logging.FieldJobID, id))
	return active.snapshot(), nil
}

// Cancel requests a cooperative cancel. Valid from pending, running, or
// paused; terminal and is never undone.
func (c *Controller) Cancel(ctx context.Context, id string) (*Job, error) {
	active := c.activeRun()
	if active == nil {
		return nil, c.transitionError(ctx, id, "cancel")
	}
	snapshot := active.snapshot()
	if snapshot.ID != id {
		return nil, c.transitionError(ctx, id, "cancel")
	}
	if snapshot.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot cancel a %s job", ErrInvalidTransition, snapshot.Status)
	}
	active.token.RequestCancel()
	c.logger.Info("cancel requested", logging.String(logging.FieldJobID, id))
	return active.snapshot(), nil
}

// Delete removes a terminal job from history.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if active := c.activeRun(); active != nil {
		if snapshot := active.snapshot(); snapshot.ID == id {
			if snapshot.Status.Active() {
				return fmt.Errorf("%w: cannot delete an active job", ErrInvalidTransition)
			}
			c.release(active)
		}
	}
	deleted, err := c.jobs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrJobNotFound
	}
	return nil
}

// ActiveJob returns the in-flight job snapshot, or nil when idle.
func (c *Controller) ActiveJob() *Job {
	active := c.activeRun()
	if active == nil {
		return nil
	}
	snapshot := active.snapshot()
	if !snapshot.Status.Active() {
		return nil
	}
	return snapshot
}

// RunOnce processes a single item synchronously, outside job bookkeeping.
// It refuses while a job holds the active slot so a run's selection cannot
// race a concurrent single-item pass over the same row. All steps run, with
// skip_processed off; already-present artifacts are still left untouched by
// the pipeline's per-step guards.
func (c *Controller) RunOnce(ctx context.Context, itemID int64) (Outcome, *library.Item, error) {
	if job := c.ActiveJob(); job != nil {
		return Outcome{}, nil, fmt.Errorf("%w: job %s is %s", ErrJobActive, job.ID, job.Status)
	}

	item, err := c.library.GetByID(ctx, itemID)
	if err != nil {
		return Outcome{}, nil, err
	}
	if item == nil {
		return Outcome{}, nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}

	opts := DefaultOptions()
	opts.SkipProcessed = false
	if err := c.pipeline.Ready(ctx, opts); err != nil {
		return Outcome{}, nil, err
	}

	outcome := c.pipeline.Process(ctx, item, opts)
	if outcome.Fatal != nil {
		return outcome, nil, outcome.Fatal
	}

	updated, err := c.library.GetByID(ctx, itemID)
	if err != nil {
		return outcome, item, nil
	}
	c.logger.Info("single-item enrichment finished",
		logging.Int64(logging.FieldItemID, itemID),
		logging.Int("errors", len(outcome.Errors)))
	return outcome, updated, nil
}

// Wait blocks until the active run finishes. Used by tests and shutdown.
func (c *Controller) Wait() {
	active := c.activeRun()
	if active == nil {
		return
	}
	<-active.done
}

func (c *Controller) lookup(ctx context.Context, id string) (*Job, error) {
	if active := c.activeRun(); active != nil {
		if snapshot := active.snapshot(); snapshot.ID == id {
			return snapshot, nil
		}
	}
	job, err := c.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, nil
}

// transitionError distinguishes "no such job" from "job exists but is
// terminal" for control calls that only apply to the active run.
func (c *Controller) transitionError(ctx context.Context, id, op string) error {
	job, err := c.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return fmt.Errorf("%w: cannot %s a %s job", ErrInvalidTransition, op, job.Status)
}

func (c *Controller) activeRun() *run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) release(r *run) {
	c.mu.Lock()
	if c.active == r {
		c.active = nil
	}
	c.mu.Unlock()
}
