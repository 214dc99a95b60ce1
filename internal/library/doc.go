// Package library persists media items and their enrichment artifacts in
// SQLite. It owns the database schema, including the enrichment_jobs table
// used by the enrich package through the shared connection.
package library
