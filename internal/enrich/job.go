package enrich

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an enrichment job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether the job occupies the single-active-job slot.
// A paused job can be resumed, so it still blocks new starts.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusRunning, StatusPaused:
		return true
	}
	return false
}

// Counters tallies enrichment work per dimension. A single item can
// contribute to several counters in one pass; these are not mutually
// exclusive buckets.
type Counters struct {
	Processed      int `json:"processed"`
	Transcribed    int `json:"transcribed"`
	Summarized     int `json:"summarized"`
	Categorized    int `json:"categorized"`
	AreaAssigned   int `json:"area_assigned"`
	KeyPointsAdded int `json:"key_points_added"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
}

// Job is one execution of the orchestrator over a selected set of items.
type Job struct {
	ID      string  `json:"id"`
	Status  Status  `json:"status"`
	Options Options `json:"options"`

	TotalItems int `json:"total_items"`
	Counters

	CurrentItem string   `json:"current_item,omitempty"`
	Error       string   `json:"error,omitempty"`
	Errors      []string `json:"errors,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Clone returns a deep copy safe to hand to readers while the driver keeps
// mutating the original.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	clone := *j
	if j.Errors != nil {
		clone.Errors = append([]string(nil), j.Errors...)
	}
	if j.StartedAt != nil {
		started := *j.StartedAt
		clone.StartedAt = &started
	}
	if j.CompletedAt != nil {
		completed := *j.CompletedAt
		clone.CompletedAt = &completed
	}
	return &clone
}

// Outcome is the tagged per-item result: which enrichment dimensions were
// satisfied, which steps errored, and whether the job must stop entirely.
type Outcome struct {
	Transcribed    bool
	Summarized     bool
	KeyPointsAdded bool
	Categorized    bool
	AreaAssigned   bool
	Skipped        bool

	Errors []string
	Fatal  error
}

// Apply folds a per-item outcome into the counters. Processed always
// advances; the dimension counters advance only for work actually done.
func (c *Counters) Apply(outcome Outcome) {
	c.Processed++
	if outcome.Skipped {
		c.Skipped++
		return
	}
	if outcome.Transcribed {
		c.Transcribed++
	}
	if outcome.Summarized {
		c.Summarized++
	}
	if outcome.KeyPointsAdded {
		c.KeyPointsAdded++
	}
	if outcome.Categorized {
		c.Categorized++
	}
	if outcome.AreaAssigned {
		c.AreaAssigned++
	}
	c.Failed += len(outcome.Errors)
}

// itemError formats an errors_list entry with the item's identifying label.
func itemError(label, step string, err error) string {
	return fmt.Sprintf("%s: %s: %v", label, step, err)
}
