// Package daemon coordinates the long-running curator process.
//
// It wires configuration, the library store, and the enrichment controller
// into a single lifecycle with flock-based locking to prevent multiple
// instances. Startup recovers jobs a previous process left non-terminal,
// runs preflight checks, and brings up the HTTP API; shutdown cancels any
// active job and waits for the driver to stop at an item boundary.
//
// Keep orchestration logic here: enrichment semantics live in the enrich
// package while the daemon focuses on startup, shutdown, and the API
// surface.
package daemon
