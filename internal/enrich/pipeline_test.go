package enrich_test

import (
	"context"
	"strings"
	"testing"

	"curator/internal/enrich"
	"curator/internal/library"
	"curator/internal/services"
	"curator/internal/testsupport"
)

func newPipeline(f *fixture) *enrich.Pipeline {
	return enrich.NewPipeline(f.store, f.transcriber, f.model, f.cfg.Taxonomy.Categories, f.cfg.Taxonomy.Areas, nil)
}

func TestProcessFullEnrichment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "charla de finanzas")

	outcome := newPipeline(f).Process(ctx, item, enrich.DefaultOptions())

	if len(outcome.Errors) != 0 {
		t.Fatalf("expected clean run, got errors %v", outcome.Errors)
	}
	if !outcome.Transcribed || !outcome.Summarized || !outcome.KeyPointsAdded || !outcome.Categorized {
		t.Fatalf("expected every step to apply: %+v", outcome)
	}
	if outcome.AreaAssigned {
		t.Fatal("area must only be assigned on only_without_area runs")
	}
	if outcome.Skipped {
		t.Fatal("fresh item must not be skipped")
	}

	stored, err := f.store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !stored.HasTranscript() || !stored.HasSummary() || !stored.HasKeyPoints() || !stored.HasCategory() {
		t.Fatalf("artifacts not persisted: %+v", stored)
	}
	if stored.HasArea() {
		t.Fatal("area must not be persisted on a default run")
	}
}

func TestProcessTranscriptionFailureStillSummarizes(t *testing.T) {
	f := newFixture(t)
	f.transcriber.err = errBoom
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "video roto")

	outcome := newPipeline(f).Process(ctx, item, enrich.DefaultOptions())

	if outcome.Transcribed {
		t.Fatal("transcription should have failed")
	}
	if !outcome.Summarized {
		t.Fatal("summary should still run from the title text")
	}
	if outcome.Fatal != nil {
		t.Fatalf("tool failure must stay with the item, got fatal %v", outcome.Fatal)
	}
	if len(outcome.Errors) != 1 || !strings.Contains(outcome.Errors[0], "transcribe") {
		t.Fatalf("expected one transcribe error, got %v", outcome.Errors)
	}
	if !strings.Contains(outcome.Errors[0], "video roto") {
		t.Fatalf("error entry must name the item, got %q", outcome.Errors[0])
	}
}

func TestProcessSkipsFullyEnrichedItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "ya listo")

	if err := f.store.WriteTranscript(ctx, item.ID, "transcripción completa del video", "whisper"); err != nil {
		t.Fatalf("WriteTranscript failed: %v", err)
	}
	if err := f.store.WriteSummary(ctx, item.ID, "resumen existente"); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if err := f.store.WriteCategory(ctx, item.ID, "Finanzas", nil); err != nil {
		t.Fatalf("WriteCategory failed: %v", err)
	}
	item, err := f.store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	outcome := newPipeline(f).Process(ctx, item, enrich.DefaultOptions())

	if !outcome.Skipped {
		t.Fatalf("expected skipped outcome, got %+v", outcome)
	}
	if f.transcriber.callCount() != 0 {
		t.Fatal("no external calls expected for a skipped item")
	}
}

func TestProcessFatalWhenModelUnreachable(t *testing.T) {
	f := newFixture(t)
	f.model.summaryErr = services.Wrap(services.ErrUnavailable, "summarize", "llm.Generate", "connection refused", nil)
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "sin modelo")

	outcome := newPipeline(f).Process(ctx, item, enrich.DefaultOptions())

	if outcome.Fatal == nil {
		t.Fatal("unreachable model must abort the run")
	}
	if !services.IsFatal(outcome.Fatal) {
		t.Fatalf("fatal error lost its marker: %v", outcome.Fatal)
	}
}

func TestProcessAssignsAreaWhenRequested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "análisis económico")

	opts := enrich.DefaultOptions()
	opts.OnlyWithoutArea = true
	outcome := newPipeline(f).Process(ctx, item, opts)

	if !outcome.AreaAssigned {
		t.Fatalf("expected area assignment, got %+v", outcome)
	}
	stored, err := f.store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Area != "Economía" {
		t.Fatalf("expected persisted area, got %q", stored.Area)
	}
}

func TestProcessDeclinedAreaIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.model.areaDecline = true
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "tema ambiguo")

	opts := enrich.DefaultOptions()
	opts.OnlyWithoutArea = true
	outcome := newPipeline(f).Process(ctx, item, opts)

	if outcome.AreaAssigned {
		t.Fatal("declined answer must not assign an area")
	}
	for _, entry := range outcome.Errors {
		if strings.Contains(entry, "assign-area") {
			t.Fatalf("declined answer must not be recorded as an error: %v", outcome.Errors)
		}
	}
}

func TestProcessSubcategoryFailureKeepsCategory(t *testing.T) {
	f := newFixture(t)
	f.model.subcatsErr = errBoom
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "solo categoría")

	opts := enrich.Options{IncludeCategorization: true, IncludeSubcategories: true}
	outcome := newPipeline(f).Process(ctx, item, opts)

	if !outcome.Categorized {
		t.Fatalf("category should persist regardless of subcategories: %+v", outcome)
	}
	if len(outcome.Errors) != 1 {
		t.Fatalf("expected the subcategory failure recorded, got %v", outcome.Errors)
	}
	stored, err := f.store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Category != "Finanzas" {
		t.Fatalf("expected category Finanzas, got %q", stored.Category)
	}
}

func TestReadyReportsModelDown(t *testing.T) {
	f := newFixture(t)
	f.model.healthErr = errBoom
	pipeline := newPipeline(f)

	if err := pipeline.Ready(context.Background(), enrich.DefaultOptions()); !services.IsFatal(err) {
		t.Fatalf("expected fatal preflight error, got %v", err)
	}

	transcriptionOnly := enrich.Options{IncludeTranscription: true}
	if err := pipeline.Ready(context.Background(), transcriptionOnly); err != nil {
		t.Fatalf("transcription-only run must not need the model, got %v", err)
	}
}

func TestProcessPassesModelTierToTranscriber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := testsupport.AddItem(t, f.store, library.SourceYouTube, "charla corta")

	opts := enrich.DefaultOptions()
	opts.TranscriptionModel = "tiny"
	outcome := newPipeline(f).Process(ctx, item, opts)

	if !outcome.Transcribed {
		t.Fatalf("expected transcription, got %+v", outcome)
	}
	if got := f.transcriber.requestedModel(); got != "tiny" {
		t.Fatalf("expected job model tier to reach the transcriber, got %q", got)
	}
}
