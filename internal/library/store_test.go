package library_test

import (
	"context"
	"fmt"
	"testing"

	"curator/internal/library"
	"curator/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.Add(ctx, &library.Item{
		Source:     library.SourceYouTube,
		URL:        "https://youtube.com/watch?v=abc123",
		Title:      "Sample Video",
		Author:     "Sample Author",
		Tags:       []string{"finance", "crypto"},
		UploadDate: "20260115",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Sample Video" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
	if len(fetched.Tags) != 2 || fetched.Tags[0] != "finance" {
		t.Fatalf("unexpected tags: %#v", fetched.Tags)
	}
	if fetched.UploadDate != "20260115" {
		t.Fatalf("unexpected upload date: %q", fetched.UploadDate)
	}
	if fetched.EnrichedAt != nil {
		t.Fatal("new item should not be marked enriched")
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.Add(ctx, &library.Item{Source: "mystery", URL: "https://x", Title: "x"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
	if _, err := store.Add(ctx, &library.Item{Source: library.SourceTikTok, Title: "no url"}); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	item, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil for missing item, got %#v", item)
	}
}

func TestWriteArtifactsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, library.SourceYouTube, "artifact-target")

	if err := store.WriteTranscript(ctx, item.ID, "hola mundo", "subtitles"); err != nil {
		t.Fatalf("WriteTranscript failed: %v", err)
	}
	if err := store.WriteSummary(ctx, item.ID, "RESUMEN corto"); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if err := store.WriteKeyPoints(ctx, item.ID, []string{"punto uno", "punto dos"}); err != nil {
		t.Fatalf("WriteKeyPoints failed: %v", err)
	}
	if err := store.WriteCategory(ctx, item.ID, "Finanzas", []string{"Cripto", "Ahorro"}); err != nil {
		t.Fatalf("WriteCategory failed: %v", err)
	}
	if err := store.WriteArea(ctx, item.ID, "Economía"); err != nil {
		t.Fatalf("WriteArea failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Transcript != "hola mundo" || fetched.TranscriptSource != "subtitles" {
		t.Fatalf("unexpected transcript fields: %#v", fetched)
	}
	if fetched.Summary != "RESUMEN corto" {
		t.Fatalf("unexpected summary: %q", fetched.Summary)
	}
	if len(fetched.KeyPoints) != 2 || fetched.KeyPoints[1] != "punto dos" {
		t.Fatalf("unexpected key points: %#v", fetched.KeyPoints)
	}
	if fetched.Category != "Finanzas" || len(fetched.Subcategories) != 2 {
		t.Fatalf("unexpected category fields: %#v", fetched)
	}
	if fetched.Area != "Economía" {
		t.Fatalf("unexpected area: %q", fetched.Area)
	}
	if fetched.EnrichedAt == nil {
		t.Fatal("expected enriched_at to be stamped")
	}
}

func TestWriteArtifactsValidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, library.SourceTikTok, "validation-target")

	if err := store.WriteTranscript(ctx, item.ID, "   ", "whisper"); err == nil {
		t.Fatal("expected error for blank transcript")
	}
	if err := store.WriteKeyPoints(ctx, item.ID, nil); err == nil {
		t.Fatal("expected error for empty key points")
	}
	if err := store.WriteArea(ctx, 4242, "Tecnología"); err == nil {
		t.Fatal("expected error for missing item")
	}
}

func TestListSelectionFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		testsupport.AddItem(t, store, library.SourceYouTube, fmt.Sprintf("yt-%d", i))
	}
	tiktok := testsupport.AddItem(t, store, library.SourceTikTok, "tt-0")
	sub := testsupport.AddItem(t, store, library.SourceSubscription, "sub-0")

	if err := store.WriteSummary(ctx, tiktok.ID, "done"); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if err := store.WriteTranscript(ctx, tiktok.ID, "texto tiktok", "whisper"); err != nil {
		t.Fatalf("WriteTranscript failed: %v", err)
	}
	if err := store.WriteArea(ctx, sub.ID, "Ciencia"); err != nil {
		t.Fatalf("WriteArea failed: %v", err)
	}

	all, err := store.List(ctx, library.Selection{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 items, got %d", len(all))
	}

	youtubeOnly, err := store.List(ctx, library.Selection{Sources: library.SourcesForScope("youtube")})
	if err != nil {
		t.Fatalf("List youtube failed: %v", err)
	}
	if len(youtubeOnly) != 4 {
		t.Fatalf("expected 4 youtube-family items, got %d", len(youtubeOnly))
	}

	withoutSummary, err := store.List(ctx, library.Selection{WithoutSummary: true})
	if err != nil {
		t.Fatalf("List without summary failed: %v", err)
	}
	if len(withoutSummary) != 4 {
		t.Fatalf("expected 4 items lacking summary, got %d", len(withoutSummary))
	}
	for _, item := range withoutSummary {
		if item.HasSummary() {
			t.Fatalf("item %d should lack summary", item.ID)
		}
	}

	untranscribed, err := store.List(ctx, library.Selection{WithoutTranscript: true})
	if err != nil {
		t.Fatalf("List untranscribed failed: %v", err)
	}
	if len(untranscribed) != 4 {
		t.Fatalf("expected 4 items lacking transcript, got %d", len(untranscribed))
	}

	if err := store.SetArchived(ctx, sub.ID, true); err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	visible, err := store.List(ctx, library.Selection{ExcludeArchived: true})
	if err != nil {
		t.Fatalf("List excluding archived failed: %v", err)
	}
	if len(visible) != 4 {
		t.Fatalf("expected 4 unarchived items, got %d", len(visible))
	}

	limited, err := store.List(ctx, library.Selection{Limit: 2})
	if err != nil {
		t.Fatalf("List limited failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(limited))
	}

	count, err := store.CountItems(ctx, library.Selection{WithoutArea: true, Limit: 1})
	if err != nil {
		t.Fatalf("CountItems failed: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected count 4 ignoring limit, got %d", count)
	}
}

func TestSelectionFlagsCompose(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	both := testsupport.AddItem(t, store, library.SourceYouTube, "missing-both")
	summarized := testsupport.AddItem(t, store, library.SourceYouTube, "has-summary")
	located := testsupport.AddItem(t, store, library.SourceYouTube, "has-area")

	if err := store.WriteSummary(ctx, summarized.ID, "ok"); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if err := store.WriteArea(ctx, located.ID, "Historia"); err != nil {
		t.Fatalf("WriteArea failed: %v", err)
	}

	matched, err := store.List(ctx, library.Selection{WithoutArea: true, WithoutSummary: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != both.ID {
		t.Fatalf("expected only the item missing both artifacts, got %#v", matched)
	}
}

func TestRemoveAndArchive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item := testsupport.AddItem(t, store, library.SourceLikedVideos, "target")
	if err := store.SetArchived(ctx, item.ID, true); err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !fetched.Archived {
		t.Fatal("expected item to be archived")
	}

	removed, err := store.Remove(ctx, item.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected item to be removed")
	}
	removed, err = store.Remove(ctx, item.ID)
	if err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if removed {
		t.Fatal("expected second Remove to report missing item")
	}
}
