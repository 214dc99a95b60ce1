package llm

import (
	"context"
	"regexp"
	"strings"

	"curator/internal/services"
)

const maxKeyPoints = 6

// Summary holds the generated summary and its key points.
type Summary struct {
	Text      string
	KeyPoints []string
}

var numberedPointRe = regexp.MustCompile(`^\d+[.)]\s*`)

// Summarize generates a summary with key points for the given transcript.
func (c *Client) Summarize(ctx context.Context, title, transcript string) (Summary, error) {
	var empty Summary
	if strings.TrimSpace(transcript) == "" {
		return empty, services.Wrap(services.ErrValidation, "summarize", "llm.Summarize", "transcript is empty", nil)
	}
	raw, err := c.Generate(ctx, summaryPrompt(title, transcript))
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "summarize", "llm.Summarize", "generate summary", err)
	}
	return parseSummaryResponse(raw), nil
}

// parseSummaryResponse extracts the labeled summary and bullet points from the
// model output. Models drift from the requested format often enough that the
// parser tolerates missing labels and falls back to the raw text.
func parseSummaryResponse(raw string) Summary {
	var (
		summary   strings.Builder
		keyPoints []string
		inPoints  bool
		inSummary bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if strings.Contains(lower, "resumen:") {
			inSummary = true
			inPoints = false
			if _, after, found := strings.Cut(line, ":"); found {
				summary.Reset()
				summary.WriteString(strings.TrimSpace(after))
			}
			continue
		}
		if strings.Contains(lower, "puntos clave") || strings.Contains(lower, "key points") {
			inPoints = true
			inSummary = false
			continue
		}

		switch {
		case inPoints:
			point := ""
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
				point = strings.TrimSpace(strings.TrimLeft(line, "-•*"))
			} else if numberedPointRe.MatchString(line) {
				point = strings.TrimSpace(numberedPointRe.ReplaceAllString(line, ""))
			}
			if len([]rune(point)) > 3 {
				keyPoints = append(keyPoints, point)
			}
		case inSummary && line != "":
			if summary.Len() > 0 {
				summary.WriteString(" ")
			}
			summary.WriteString(line)
		}
	}

	text := strings.TrimSpace(summary.String())
	if text == "" {
		text = truncate(raw, 500)
	}
	if len(keyPoints) > maxKeyPoints {
		keyPoints = keyPoints[:maxKeyPoints]
	}
	return Summary{Text: text, KeyPoints: keyPoints}
}
