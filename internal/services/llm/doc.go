// Package llm provides an Ollama generate-API client for enrichment.
//
// This package is used by:
//   - Summary step: produce a labeled summary plus key points
//   - Category step: pick a category and suggest subcategories
//   - Area step: assign a taxonomic area
//
// # Prompt Format
//
// Prompts are written in Spanish to match the library's content. The summary
// prompt asks for a RESUMEN: line followed by a PUNTOS CLAVE: bullet list;
// the parser tolerates models drifting from that format. The area prompt
// requests a small JSON object, decoded with code-fence stripping.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Generate: send a raw prompt, receive the completion text.
// Client.Summarize, Client.Categorize, Client.Subcategories,
// Client.AssignArea: enrichment-specific wrappers.
// Client.HealthCheck: verify the model server responds.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 3 attempts by default).
// Context cancellation aborts retries immediately.
package llm
