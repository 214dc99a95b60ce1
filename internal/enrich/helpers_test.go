package enrich_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/enrich"
	"curator/internal/library"
	"curator/internal/services/llm"
	"curator/internal/services/transcriber"
	"curator/internal/testsupport"
)

// fakeTranscriber returns canned transcripts. When gated, each Transcribe
// call announces itself on started and blocks until released on proceed,
// which lets tests inject pause/cancel requests mid-item.
type fakeTranscriber struct {
	mu        sync.Mutex
	calls     int
	lastModel string
	text      string
	err       error
	started   chan struct{}
	proceed   chan struct{}
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, req transcriber.Request) (transcriber.Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastModel = req.Model
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
		<-f.proceed
	}
	if f.err != nil {
		return transcriber.Result{}, f.err
	}
	text := f.text
	if text == "" {
		text = "transcript for " + req.URL
	}
	return transcriber.Result{Text: text, Source: transcriber.SourceWhisper}, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeTranscriber) requestedModel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastModel
}

// fakeModel returns canned model output and optionally fails its health check.
type fakeModel struct {
	summary      llm.Summary
	summaryErr   error
	category     string
	categoryErr  error
	subcats      []string
	subcatsErr   error
	area         llm.AreaResult
	areaDecline  bool
	areaErr      error
	healthErr    error
	summarizedMu sync.Mutex
	summarized   int
}

func (f *fakeModel) Summarize(ctx context.Context, title, transcript string) (llm.Summary, error) {
	f.summarizedMu.Lock()
	f.summarized++
	f.summarizedMu.Unlock()
	if f.summaryErr != nil {
		return llm.Summary{}, f.summaryErr
	}
	if f.summary.Text == "" {
		return llm.Summary{Text: "resumen de " + title, KeyPoints: []string{"punto uno", "punto dos"}}, nil
	}
	return f.summary, nil
}

func (f *fakeModel) Categorize(ctx context.Context, title, author, transcript string, categories []string) (string, error) {
	if f.categoryErr != nil {
		return "", f.categoryErr
	}
	if f.category == "" {
		return "Finanzas", nil
	}
	return f.category, nil
}

func (f *fakeModel) Subcategories(ctx context.Context, title, author, category, transcript string) ([]string, error) {
	if f.subcatsErr != nil {
		return nil, f.subcatsErr
	}
	if f.subcats == nil {
		return []string{"Inversiones", "Ahorro"}, nil
	}
	return f.subcats, nil
}

func (f *fakeModel) AssignArea(ctx context.Context, title, author, transcript string, areas []string) (llm.AreaResult, error) {
	if f.areaErr != nil {
		return llm.AreaResult{}, f.areaErr
	}
	if f.areaDecline {
		return llm.AreaResult{Confidence: "baja"}, nil
	}
	if f.area.Area == "" {
		return llm.AreaResult{Area: "Economía", Confidence: "alta"}, nil
	}
	return f.area, nil
}

func (f *fakeModel) HealthCheck(ctx context.Context) error {
	return f.healthErr
}

type fixture struct {
	cfg         *config.Config
	store       *library.Store
	jobs        *enrich.Store
	controller  *enrich.Controller
	transcriber *fakeTranscriber
	model       *fakeModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ft := &fakeTranscriber{}
	fm := &fakeModel{}
	pipeline := enrich.NewPipeline(store, ft, fm, cfg.Taxonomy.Categories, cfg.Taxonomy.Areas, nil)
	jobs := enrich.NewStore(store)
	controller := enrich.NewController(jobs, store, pipeline, enrich.Settings{}, nil)
	return &fixture{
		cfg:         cfg,
		store:       store,
		jobs:        jobs,
		controller:  controller,
		transcriber: ft,
		model:       fm,
	}
}

func (f *fixture) addItems(t *testing.T, count int) []*library.Item {
	t.Helper()
	items := make([]*library.Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, testsupport.AddItem(t, f.store, library.SourceYouTube, itemTitle(i)))
	}
	return items
}

func itemTitle(i int) string {
	return "video-" + string(rune('a'+i))
}

func waitForStatus(t *testing.T, f *fixture, id string, want enrich.Status) *enrich.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		view, err := f.controller.Status(context.Background(), id)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if view.Job.Status == want {
			return view.Job
		}
		time.Sleep(5 * time.Millisecond)
	}
	view, _ := f.controller.Status(context.Background(), id)
	t.Fatalf("job never reached %s, currently %s", want, view.Job.Status)
	return nil
}

var errBoom = errors.New("boom")
