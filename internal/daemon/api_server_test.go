package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"curator/internal/api"
	"curator/internal/library"
	"curator/internal/testsupport"
)

func TestAPIStatusAndStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, store := newDaemon(t, cfg)
	ctx := context.Background()

	testsupport.AddItem(t, store, library.SourceYouTube, "video uno")
	testsupport.AddItem(t, store, library.SourceTikTok, "video dos")

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()
	base := "http://" + d.APIAddr()

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET status failed: %v", err)
	}
	var status api.DaemonStatus
	decodeBody(t, resp, http.StatusOK, &status)
	if !status.Running || status.PID == 0 {
		t.Fatalf("unexpected status payload: %+v", status)
	}

	resp, err = http.Post(base+"/api/enrich/start", "application/json",
		bytes.NewReader([]byte(`{"source_scope":"youtube"}`)))
	if err != nil {
		t.Fatalf("POST start failed: %v", err)
	}
	var started api.StartEnrichmentResponse
	decodeBody(t, resp, http.StatusCreated, &started)
	if started.Job.ID == "" {
		t.Fatal("expected job id in response")
	}
	d.Controller().Wait()

	resp, err = http.Get(base + "/api/enrich/jobs/" + started.Job.ID)
	if err != nil {
		t.Fatalf("GET job failed: %v", err)
	}
	var jobResp api.JobResponse
	decodeBody(t, resp, http.StatusOK, &jobResp)
	if jobResp.Job.Status != "completed" {
		t.Fatalf("expected completed job, got %s", jobResp.Job.Status)
	}
	if jobResp.Job.TotalItems != 1 {
		t.Fatalf("youtube scope should select one item, got %d", jobResp.Job.TotalItems)
	}

	resp, err = http.Get(base + "/api/enrich/stats")
	if err != nil {
		t.Fatalf("GET stats failed: %v", err)
	}
	var stats api.StatsResponse
	decodeBody(t, resp, http.StatusOK, &stats)
	if stats.Counts.Total != 2 || stats.Counts.WithTranscript != 1 {
		t.Fatalf("unexpected stats: %+v", stats.Counts)
	}

	resp, err = http.Get(base + "/api/library/items?source=tiktok")
	if err != nil {
		t.Fatalf("GET items failed: %v", err)
	}
	var items api.ItemListResponse
	decodeBody(t, resp, http.StatusOK, &items)
	if len(items.Items) != 1 || items.Items[0].Source != "tiktok" {
		t.Fatalf("unexpected item list: %+v", items.Items)
	}
}

func TestAPIJobControlErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, _ := newDaemon(t, cfg)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()
	base := "http://" + d.APIAddr()

	resp, err := http.Get(base + "/api/enrich/jobs/missing")
	if err != nil {
		t.Fatalf("GET missing job failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown job, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Post(base+"/api/enrich/jobs/missing/pause", "application/json", nil)
	if err != nil {
		t.Fatalf("POST pause failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for pause of unknown job, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Post(base+"/api/enrich/start", "application/json",
		bytes.NewReader([]byte(`{"include_transcription":false,"include_summary":false,"include_categorization":false}`)))
	if err != nil {
		t.Fatalf("POST start failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid options, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The socket path silently corrects key points without summaries; the
	// HTTP API must reject the combination instead of starting a job.
	resp, err = http.Post(base+"/api/enrich/start", "application/json",
		bytes.NewReader([]byte(`{"include_key_points":true,"include_summary":false}`)))
	if err != nil {
		t.Fatalf("POST start failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for key points without summaries, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	jobs, err := d.Controller().List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("rejected request must not create a job, got %d", len(jobs))
	}
}

func TestAPIBearerAuth(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("secret"))
	d, _ := newDaemon(t, cfg)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()
	base := "http://" + d.APIAddr()

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET status failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, base+"/api/status", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authorized GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func decodeBody(t *testing.T, resp *http.Response, wantStatus int, target any) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("expected status %d, got %d", wantStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
