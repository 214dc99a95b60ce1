package enrich

import (
	"context"
	"fmt"
	"time"

	"curator/internal/logging"
	"curator/internal/services"
)

// drive is the sequential driver loop for one job. Items run strictly in
// selector order, one at a time; pause and cancel are honored only between
// items.
func (c *Controller) drive(r *run) {
	defer close(r.done)

	ctx := services.WithJobID(context.Background(), r.job.ID)
	log := c.logger.With(logging.String(logging.FieldJobID, r.job.ID))

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("driver loop panicked", logging.Any("panic", recovered))
			c.finish(ctx, r, StatusFailed, fmt.Sprintf("internal error: %v", recovered))
		}
	}()

	// Target selection runs once per job; total_items is fixed before the
	// first item starts and candidates are not re-evaluated mid-run.
	items, err := c.library.List(ctx, r.job.Options.Selection())
	if err != nil {
		log.Error("target selection failed", logging.Error(err))
		c.finish(ctx, r, StatusFailed, fmt.Sprintf("target selection: %v", err))
		return
	}

	if err := c.pipeline.Ready(ctx, r.job.Options); err != nil {
		log.Error("preflight failed", logging.Error(err))
		c.finish(ctx, r, StatusFailed, err.Error())
		return
	}

	now := time.Now().UTC()
	c.mutate(ctx, r, func(job *Job) {
		job.TotalItems = len(items)
		job.Status = StatusRunning
		job.StartedAt = &now
	})
	log.Info("enrichment job started", logging.Int("total_items", len(items)))

	for index, item := range items {
		if !c.awaitBoundary(ctx, r) {
			c.finish(ctx, r, StatusCancelled, "")
			log.Info("enrichment job cancelled",
				logging.Int("processed", r.snapshot().Processed))
			return
		}

		label := item.Label()
		c.mutate(ctx, r, func(job *Job) {
			job.CurrentItem = label
		})
		log.Info("processing item",
			logging.Int64(logging.FieldItemID, item.ID),
			logging.Int("position", index+1),
			logging.Int("total", len(items)))

		outcome := c.pipeline.Process(ctx, item, r.job.Options)
		if outcome.Fatal != nil {
			log.Error("fatal pipeline error", logging.Error(outcome.Fatal))
			c.finish(ctx, r, StatusFailed, outcome.Fatal.Error())
			return
		}

		c.mutate(ctx, r, func(job *Job) {
			job.Apply(outcome)
			job.Errors = append(job.Errors, outcome.Errors...)
			job.CurrentItem = ""
		})

		if c.settings.ItemDelay > 0 && index < len(items)-1 {
			time.Sleep(c.settings.ItemDelay)
		}
	}

	c.finish(ctx, r, StatusCompleted, "")
	final := r.snapshot()
	log.Info("enrichment job completed",
		logging.Int("processed", final.Processed),
		logging.Int("failed", final.Failed),
		logging.Int("skipped", final.Skipped))
}

// awaitBoundary blocks while the job is paused and reports whether the next
// item may start. It returns false once cancel has been requested.
func (c *Controller) awaitBoundary(ctx context.Context, r *run) bool {
	for {
		paused, cancelled, signal := r.token.State()
		if cancelled {
			return false
		}
		if !paused {
			c.mutate(ctx, r, func(job *Job) {
				if job.Status == StatusPaused {
					job.Status = StatusRunning
				}
			})
			return true
		}

		c.mutate(ctx, r, func(job *Job) {
			if job.Status == StatusRunning {
				job.Status = StatusPaused
			}
		})
		<-signal
	}
}

// mutate applies a change to the job under its lock and persists the result.
// Counter updates land atomically relative to snapshot reads.
func (c *Controller) mutate(ctx context.Context, r *run, apply func(*Job)) {
	r.jobMu.Lock()
	apply(r.job)
	snapshot := r.job.Clone()
	r.jobMu.Unlock()

	if err := c.jobs.Update(ctx, snapshot); err != nil {
		c.logger.Warn("persist job state",
			logging.String(logging.FieldJobID, snapshot.ID), logging.Error(err))
	}
}

func (c *Controller) finish(ctx context.Context, r *run, status Status, errMessage string) {
	now := time.Now().UTC()
	c.mutate(ctx, r, func(job *Job) {
		if job.Status.Terminal() {
			return
		}
		job.Status = status
		job.CurrentItem = ""
		job.CompletedAt = &now
		if errMessage != "" {
			job.Error = errMessage
		}
	})
}
