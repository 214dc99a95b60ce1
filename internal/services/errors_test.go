package services_test

import (
	"errors"
	"strings"
	"testing"

	"curator/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrUnavailable, "summary", "generate", "llm call", base)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("wrapped error lost marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error lost cause: %v", err)
	}
	if !strings.Contains(err.Error(), "summary: generate: llm call") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"unavailable", services.Wrap(services.ErrUnavailable, "llm", "health", "", nil), true},
		{"external tool", services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "", nil), false},
		{"transient", services.Wrap(services.ErrTransient, "summary", "", "", nil), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsFatal(tc.err); got != tc.fatal {
				t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.fatal)
			}
		})
	}
}
