package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"curator/internal/api"
)

// apiTimeFormat matches the timestamp layout emitted by the daemon.
const apiTimeFormat = "2006-01-02T15:04:05.000Z07:00"

func parseAPITime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(apiTimeFormat, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

// formatRelativeTime renders an API timestamp as "5 minutes ago".
func formatRelativeTime(value string) string {
	t := parseAPITime(value)
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func formatDisplayTime(value string) string {
	t := parseAPITime(value)
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// formatSeconds renders a duration in compact 1h2m3s form.
func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds * float64(time.Second))
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

// shortJobID abbreviates a UUID for table display.
func shortJobID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func buildCoverageRows(counts api.EnrichmentCounts) [][]string {
	return [][]string{
		{"Items", humanize.Comma(int64(counts.Total))},
		{"Archived", humanize.Comma(int64(counts.Archived))},
		{"With transcript", humanize.Comma(int64(counts.WithTranscript))},
		{"With summary", humanize.Comma(int64(counts.WithSummary))},
		{"With key points", humanize.Comma(int64(counts.WithKeyPoints))},
		{"With category", humanize.Comma(int64(counts.WithCategory))},
		{"With area", humanize.Comma(int64(counts.WithArea))},
		{"Fully enriched", humanize.Comma(int64(counts.FullyEnriched))},
	}
}
