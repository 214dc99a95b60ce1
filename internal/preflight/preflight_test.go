package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLanguageModel_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckLanguageModel(context.Background(), "model", config.LLM{BaseURL: srv.URL, Model: "llama3.2:3b"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLanguageModel_Down(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := CheckLanguageModel(context.Background(), "model", config.LLM{BaseURL: srv.URL})
	if result.Passed {
		t.Fatal("expected failure when the endpoint errors")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestRunAllReportsDirectories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.ScratchDir = base
	cfg.Paths.LogDir = filepath.Join(base, "missing-logs")
	cfg.LLM.BaseURL = srv.URL

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if !byName["Data directory"].Passed || !byName["Scratch directory"].Passed {
		t.Fatalf("expected directory checks to pass: %+v", results)
	}
	if byName["Log directory"].Passed {
		t.Fatal("expected missing log dir to fail")
	}
	if !byName["Language model"].Passed {
		t.Fatalf("expected model check to pass: %+v", byName["Language model"])
	}
}

func TestCheckSystemDepsReportsMissing(t *testing.T) {
	t.Setenv("PATH", "")
	cfg := config.Default()
	results := CheckSystemDeps(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 dependency results, got %d", len(results))
	}
	for _, status := range results {
		if status.Available {
			t.Fatalf("expected %s to be unavailable with empty PATH", status.Name)
		}
	}
}
