package textutil

import (
	"regexp"
	"strings"
)

// minTranscriptRunes is the shortest VTT extraction worth keeping. Anything
// below this is noise (cue metadata, a lone [Música] marker).
const minTranscriptRunes = 20

var (
	markupPattern  = regexp.MustCompile(`<[^>]+>`)
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]`)
	spacesPattern  = regexp.MustCompile(`\s+`)
)

// ParseVTT extracts clean transcript text from WebVTT subtitle content.
// Cue numbers, timestamps, markup tags, and bracketed sound annotations are
// stripped; duplicate lines from auto-generated rolling captions are dropped.
// Returns "" when the result is too short to be a usable transcript.
func ParseVTT(content string) string {
	seen := make(map[string]struct{})
	var parts []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") {
			continue
		}
		if strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:") {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if isDigits(line) {
			continue
		}

		line = markupPattern.ReplaceAllString(line, "")
		line = bracketPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		parts = append(parts, line)
	}

	transcript := CollapseWhitespace(strings.Join(parts, " "))
	if len([]rune(transcript)) < minTranscriptRunes {
		return ""
	}
	return transcript
}

// CollapseWhitespace squashes runs of whitespace into single spaces.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(spacesPattern.ReplaceAllString(text, " "))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
