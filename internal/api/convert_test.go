package api

import (
	"testing"
	"time"

	"curator/internal/enrich"
	"curator/internal/library"
)

func TestFromJobTruncatesErrors(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	job := &enrich.Job{
		ID:         "job-1",
		Status:     enrich.StatusRunning,
		TotalItems: 10,
		Errors:     []string{"a: transcribe: x", "b: summarize: y", "c: categorize: z"},
		CreatedAt:  started,
		StartedAt:  &started,
	}
	job.Processed = 4
	job.Failed = 3

	dto := FromJob(job, enrich.Estimate{Known: true, Elapsed: time.Minute, AvgSecondsPerItem: 15, ETA: 90 * time.Second}, 2)

	if len(dto.Errors) != 2 {
		t.Fatalf("expected truncated error list, got %d", len(dto.Errors))
	}
	if dto.ErrorsTotal != 3 {
		t.Fatalf("expected full count preserved, got %d", dto.ErrorsTotal)
	}
	if dto.ETASeconds != 90 {
		t.Fatalf("expected eta 90s, got %v", dto.ETASeconds)
	}
	if dto.StartedAt == "" || dto.CompletedAt != "" {
		t.Fatalf("timestamp mapping wrong: started=%q completed=%q", dto.StartedAt, dto.CompletedAt)
	}
}

func TestFromJobUnknownEstimateOmitsRate(t *testing.T) {
	job := &enrich.Job{ID: "job-2", Status: enrich.StatusPending, CreatedAt: time.Now()}
	dto := FromJob(job, enrich.Estimate{}, 0)
	if dto.EstimateKnown || dto.AvgSecondsPerItem != 0 || dto.ETASeconds != 0 {
		t.Fatalf("unknown estimate must not expose a rate: %+v", dto)
	}
}

func TestStartRequestOptionsLayering(t *testing.T) {
	disabled := false
	req := StartEnrichmentRequest{
		SourceScope:    "youtube",
		Limit:          5,
		IncludeSummary: &disabled,
	}

	opts := req.Options()
	if opts.IncludeSummary {
		t.Fatal("explicit false must override the default")
	}
	if !opts.IncludeTranscription || !opts.IncludeCategorization {
		t.Fatal("omitted steps must keep their defaults")
	}
	if !opts.SkipProcessed {
		t.Fatal("skip_processed defaults on")
	}
	if opts.SourceScope != "youtube" || opts.Limit != 5 {
		t.Fatalf("scalar fields not carried: %+v", opts)
	}
}

func TestFromItemOmitsTranscriptText(t *testing.T) {
	enriched := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	item := &library.Item{
		ID:         7,
		Source:     library.SourceTikTok,
		URL:        "https://www.tiktok.com/@x/video/1",
		Title:      "clip",
		Transcript: "texto muy largo",
		Summary:    "resumen",
		KeyPoints:  []string{"uno"},
		EnrichedAt: &enriched,
	}

	dto := FromItem(item)
	if !dto.HasTranscript {
		t.Fatal("expected transcript flag set")
	}
	if dto.Summary != "resumen" || len(dto.KeyPoints) != 1 {
		t.Fatalf("artifact mapping wrong: %+v", dto)
	}
	if dto.EnrichedAt == "" {
		t.Fatal("expected enrichedAt timestamp")
	}
}

func TestFromStats(t *testing.T) {
	stats := &library.Stats{
		Counts: library.Counts{Total: 4, WithTranscript: 2, FullyEnriched: 1},
		BySource: []library.SourceStats{
			{Source: library.SourceYouTube, Counts: library.Counts{Total: 3}},
		},
		ByChannel: []library.ChannelStats{
			{ChannelID: 9, ChannelName: "Canal Uno", Counts: library.Counts{Total: 1}},
		},
	}

	resp := FromStats(stats)
	if resp.Counts.Total != 4 || resp.Counts.FullyEnriched != 1 {
		t.Fatalf("totals wrong: %+v", resp.Counts)
	}
	if len(resp.BySource) != 1 || resp.BySource[0].Source != "youtube" {
		t.Fatalf("source bucket wrong: %+v", resp.BySource)
	}
	if len(resp.ByChannel) != 1 || resp.ByChannel[0].ChannelName != "Canal Uno" {
		t.Fatalf("channel bucket wrong: %+v", resp.ByChannel)
	}
}
