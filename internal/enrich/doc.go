// Package enrich is the enrichment job orchestrator: it selects which
// library items need which enrichment steps, runs those steps sequentially
// with per-item fault isolation, tracks live progress with a derived ETA,
// and exposes a start/pause/resume/cancel/status control surface.
//
// At most one job is active at a time; the controller claims an explicit
// slot on start rather than scanning history. Pause and cancel are
// cooperative signals carried by a control token and honored only at item
// boundaries, never by interrupting an in-flight external call. A job that
// finishes iterating its candidates reports completed regardless of how many
// per-item errors accumulated; failed is reserved for jobs that could not
// run at all.
package enrich
