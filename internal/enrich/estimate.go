package enrich

import "time"

// Estimate carries the derived progress fields for one status read. Known is
// false until at least one non-skipped item has completed; skipped items are
// near-instant and would dilute the rate.
type Estimate struct {
	Elapsed           time.Duration `json:"elapsed"`
	AvgSecondsPerItem float64       `json:"avg_seconds_per_item"`
	ETA               time.Duration `json:"eta"`
	Known             bool          `json:"known"`
}

// EstimateProgress derives elapsed time, throughput, and remaining time from
// the job's counters. It is pure: no state is kept between calls, and it is
// safe to call at any point in the lifecycle.
func EstimateProgress(job *Job, now time.Time) Estimate {
	var est Estimate
	if job == nil || job.StartedAt == nil {
		return est
	}

	end := now
	if job.Status.Terminal() && job.CompletedAt != nil {
		end = *job.CompletedAt
	}
	elapsed := end.Sub(*job.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	est.Elapsed = elapsed

	effective := job.Processed - job.Skipped
	if effective <= 0 {
		return est
	}

	est.AvgSecondsPerItem = elapsed.Seconds() / float64(effective)
	remaining := job.TotalItems - job.Processed
	if remaining < 0 || job.Status.Terminal() {
		remaining = 0
	}
	est.ETA = time.Duration(float64(remaining) * est.AvgSecondsPerItem * float64(time.Second))
	est.Known = true
	return est
}
