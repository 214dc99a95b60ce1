package enrich

import (
	"testing"
	"time"
)

func startedJob(started time.Time) *Job {
	return &Job{Status: StatusRunning, StartedAt: &started}
}

func TestEstimateUnknownBeforeStart(t *testing.T) {
	if est := EstimateProgress(nil, time.Now()); est.Known {
		t.Fatal("nil job must yield an unknown estimate")
	}
	job := &Job{Status: StatusPending}
	if est := EstimateProgress(job, time.Now()); est.Known {
		t.Fatal("unstarted job must yield an unknown estimate")
	}
}

func TestEstimateUnknownWhenOnlySkipped(t *testing.T) {
	now := time.Now()
	job := startedJob(now.Add(-time.Minute))
	job.TotalItems = 10
	job.Processed = 4
	job.Skipped = 4

	est := EstimateProgress(job, now)
	if est.Known {
		t.Fatal("all-skipped progress must not produce a rate")
	}
	if est.Elapsed != time.Minute {
		t.Fatalf("expected elapsed 1m, got %s", est.Elapsed)
	}
}

func TestEstimateExcludesSkippedFromRate(t *testing.T) {
	now := time.Now()
	job := startedJob(now.Add(-100 * time.Second))
	job.TotalItems = 10
	job.Processed = 6
	job.Skipped = 2

	est := EstimateProgress(job, now)
	if !est.Known {
		t.Fatal("expected a known estimate")
	}
	if est.AvgSecondsPerItem != 25 {
		t.Fatalf("expected 25s per item over 4 effective items, got %v", est.AvgSecondsPerItem)
	}
	if est.ETA != 100*time.Second {
		t.Fatalf("expected 100s remaining for 4 items, got %s", est.ETA)
	}
}

func TestEstimateTerminalJobHasNoRemaining(t *testing.T) {
	started := time.Now().Add(-time.Hour)
	completed := started.Add(30 * time.Minute)
	job := &Job{
		Status:      StatusCancelled,
		StartedAt:   &started,
		CompletedAt: &completed,
		TotalItems:  100,
	}
	job.Processed = 10

	est := EstimateProgress(job, time.Now())
	if est.Elapsed != 30*time.Minute {
		t.Fatalf("terminal elapsed should stop at completion, got %s", est.Elapsed)
	}
	if est.ETA != 0 {
		t.Fatalf("terminal job must report zero ETA, got %s", est.ETA)
	}
}

func TestEstimateNeverNegative(t *testing.T) {
	now := time.Now()
	job := startedJob(now.Add(-time.Second))
	job.TotalItems = 2
	job.Processed = 5

	est := EstimateProgress(job, now)
	if est.ETA < 0 {
		t.Fatalf("ETA must not go negative, got %s", est.ETA)
	}
}

func TestCountersApply(t *testing.T) {
	var c Counters
	c.Apply(Outcome{Transcribed: true, Summarized: true, KeyPointsAdded: true})
	c.Apply(Outcome{Skipped: true, Transcribed: true})
	c.Apply(Outcome{Summarized: true, Errors: []string{"x: transcribe: boom"}})

	if c.Processed != 3 {
		t.Fatalf("expected processed 3, got %d", c.Processed)
	}
	if c.Skipped != 1 {
		t.Fatalf("expected skipped 1, got %d", c.Skipped)
	}
	if c.Transcribed != 1 {
		t.Fatal("skipped outcome must not advance dimension counters")
	}
	if c.Summarized != 2 || c.KeyPointsAdded != 1 {
		t.Fatalf("unexpected counters: %+v", c)
	}
	if c.Failed != 1 {
		t.Fatalf("expected failed 1, got %d", c.Failed)
	}
}
