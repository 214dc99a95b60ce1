// Package api defines wire-format types and converters for the IPC and HTTP
// API layer. It translates internal job and library models into
// transport-friendly DTOs so consumers never couple to internal types.
//
// # Key Types
//
// Job: transport representation of an enrichment job with counters, a
// truncated error list, and the estimator's derived timing fields.
//
// Item: library entry without transcript text; list payloads stay small and
// clients fetch transcripts per item.
//
// StatsResponse: enrichment coverage totals plus per-source and per-channel
// breakdowns.
//
// DaemonStatus: daemon runtime information including dependency probes.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers.
// StartEnrichmentRequest uses the same snake_case field names the job
// options persist with, so a stored options blob replays as a request.
// Optional booleans are pointers: an omitted field keeps the default, an
// explicit false disables the step. Timestamps use RFC3339 with
// milliseconds.
package api
