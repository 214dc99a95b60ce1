package main

import (
	"testing"
	"time"
)

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "-"},
		{-5, "-"},
		{42, "42s"},
		{125, "2m5s"},
		{3725, "1h2m"},
	}
	for _, tc := range cases {
		if got := formatSeconds(tc.seconds); got != tc.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatStatusLabel(t *testing.T) {
	if got := formatStatusLabel("running"); got != "Running" {
		t.Fatalf("got %q", got)
	}
	if got := formatStatusLabel("completed_with_errors"); got != "Completed With Errors" {
		t.Fatalf("got %q", got)
	}
	if got := formatStatusLabel("  "); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

func TestShortJobID(t *testing.T) {
	if got := shortJobID("0b1e52aa-9921-4c6a-8d54-aaa111222333"); got != "0b1e52aa" {
		t.Fatalf("got %q", got)
	}
	if got := shortJobID("short"); got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestParseAPITime(t *testing.T) {
	value := "2026-08-31T10:15:00.000Z"
	got := parseAPITime(value)
	want := time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parseAPITime(%q) = %v, want %v", value, got, want)
	}
	if !parseAPITime("garbage").IsZero() {
		t.Fatal("expected zero time for malformed input")
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("corto", 10); got != "corto" {
		t.Fatalf("got %q", got)
	}
	if got := truncateText("una charla muy larga sobre inversión", 12); got != "una charl..." {
		t.Fatalf("got %q", got)
	}
}
