// Package textutil provides text processing utilities for subtitle parsing
// and display labels.
//
// The primary use cases are:
//   - Extracting clean transcript text from WebVTT subtitle files
//   - Collapsing whitespace in model output and scraped text
//   - Rendering taxonomy labels in title case for CLI output
package textutil
