// Package services holds the shared error taxonomy and context annotations
// used by the external service clients (transcriber, llm) and the enrichment
// pipeline that drives them.
package services
