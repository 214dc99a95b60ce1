package daemon_test

import (
	"context"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/daemon"
	"curator/internal/enrich"
	"curator/internal/library"
	"curator/internal/services/llm"
	"curator/internal/services/transcriber"
	"curator/internal/testsupport"
)

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(ctx context.Context, req transcriber.Request) (transcriber.Result, error) {
	return transcriber.Result{Text: "transcripción", Source: transcriber.SourceWhisper}, nil
}

type stubModel struct{}

func (stubModel) Summarize(ctx context.Context, title, transcript string) (llm.Summary, error) {
	return llm.Summary{Text: "resumen", KeyPoints: []string{"punto"}}, nil
}

func (stubModel) Categorize(ctx context.Context, title, author, transcript string, categories []string) (string, error) {
	return "Otros", nil
}

func (stubModel) Subcategories(ctx context.Context, title, author, category, transcript string) ([]string, error) {
	return nil, nil
}

func (stubModel) AssignArea(ctx context.Context, title, author, transcript string, areas []string) (llm.AreaResult, error) {
	return llm.AreaResult{}, nil
}

func newDaemon(t *testing.T, cfg *config.Config) (*daemon.Daemon, *library.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	pipeline := enrich.NewPipeline(store, stubTranscriber{}, stubModel{}, cfg.Taxonomy.Categories, cfg.Taxonomy.Areas, nil)
	jobs := enrich.NewStore(store)
	controller := enrich.NewController(jobs, store, pipeline, enrich.Settings{}, nil)
	d, err := daemon.New(cfg, store, jobs, controller, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, store
}

func TestDaemonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, _ := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.DatabasePath == "" || status.LockFilePath == "" {
		t.Fatalf("expected paths populated: %+v", status)
	}
	if d.APIAddr() == "" {
		t.Fatal("expected api server bound")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, _ := newDaemon(t, cfg)
	second, _ := newDaemon(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	defer first.Stop()

	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance rejected while lock is held")
	}
}

func TestDaemonStartRecoversStaleJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, store := newDaemon(t, cfg)
	ctx := context.Background()

	jobs := enrich.NewStore(store)
	stale := &enrich.Job{
		ID:        "stale",
		Status:    enrich.StatusRunning,
		Options:   enrich.DefaultOptions(),
		CreatedAt: time.Now().UTC(),
	}
	if err := jobs.Insert(ctx, stale); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	recovered, err := jobs.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if recovered.Status != enrich.StatusFailed {
		t.Fatalf("expected stale job failed on startup, got %s", recovered.Status)
	}
}

func TestDaemonStopCancelsActiveJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, store := newDaemon(t, cfg)
	ctx := context.Background()

	testsupport.AddItem(t, store, library.SourceYouTube, "pendiente")

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	job, err := d.Controller().Start(ctx, enrich.DefaultOptions())
	if err != nil {
		t.Fatalf("job Start failed: %v", err)
	}
	d.Stop()

	view, err := d.Controller().Status(ctx, job.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !view.Job.Status.Terminal() {
		t.Fatalf("expected terminal job after shutdown, got %s", view.Job.Status)
	}
}
