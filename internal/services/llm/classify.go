package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"curator/internal/services"
	"curator/internal/textutil"
)

const (
	// FallbackCategory is assigned when the model refuses to pick one.
	FallbackCategory = "Otros"

	maxSubcategories = 3
)

// AreaResult captures the model's area assignment.
type AreaResult struct {
	Area       string
	Confidence string
	Raw        string
}

// Categorize picks the best matching category from the configured list.
// The model answer is matched case-insensitively against the list so a
// chatty response still resolves to a known category.
func (c *Client) Categorize(ctx context.Context, title, author, transcript string, categories []string) (string, error) {
	if len(categories) == 0 {
		return "", services.Wrap(services.ErrConfiguration, "categorize", "llm.Categorize", "no categories configured", nil)
	}
	raw, err := c.Generate(ctx, categoryPrompt(title, author, transcript, categories))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "categorize", "llm.Categorize", "generate category", err)
	}
	answer := strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), "."))
	for _, category := range categories {
		if strings.Contains(answer, strings.ToLower(category)) {
			return category, nil
		}
	}
	return FallbackCategory, nil
}

// Subcategories suggests up to three subcategories within the given category.
// Labels are normalized to Spanish title case before they are returned.
func (c *Client) Subcategories(ctx context.Context, title, author, category, transcript string) ([]string, error) {
	raw, err := c.Generate(ctx, subcategoriesPrompt(title, author, category, transcript))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "categorize", "llm.Subcategories", "generate subcategories", err)
	}
	var subcategories []string
	for _, part := range strings.Split(raw, ",") {
		part = textutil.TitleLabel(strings.Trim(strings.TrimSpace(part), `"'.`))
		if part == "" {
			continue
		}
		subcategories = append(subcategories, part)
		if len(subcategories) == maxSubcategories {
			break
		}
	}
	return subcategories, nil
}

// AssignArea classifies the item into one of the configured taxonomic areas.
// An answer outside the configured list yields an empty area, not an error.
func (c *Client) AssignArea(ctx context.Context, title, author, transcript string, areas []string) (AreaResult, error) {
	var empty AreaResult
	if len(areas) == 0 {
		return empty, services.Wrap(services.ErrConfiguration, "assign-area", "llm.AssignArea", "no areas configured", nil)
	}
	raw, err := c.Generate(ctx, areaPrompt(title, author, transcript, areas))
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "assign-area", "llm.AssignArea", "generate area", err)
	}

	var parsed struct {
		Area       string `json:"area"`
		Confidence string `json:"confidence"`
	}
	if err := DecodeModelJSON(raw, &parsed); err != nil {
		return empty, services.Wrap(services.ErrTransient, "assign-area", "llm.AssignArea", "parse area payload", err)
	}

	result := AreaResult{Confidence: normalizeConfidence(parsed.Confidence), Raw: raw}
	answer := strings.TrimSpace(parsed.Area)
	for _, area := range areas {
		if strings.EqualFold(area, answer) {
			result.Area = area
			break
		}
	}
	return result, nil
}

func normalizeConfidence(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "alta":
		return "alta"
	case "baja":
		return "baja"
	default:
		return "media"
	}
}

// DecodeModelJSON decodes JSON from a model response, handling common
// formatting quirks like code fences and surrounding prose.
func DecodeModelJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, summarizePayloadSnippet(trimmed))
	}

	sanitizedErr := json.Unmarshal([]byte(sanitized), target)
	if sanitizedErr == nil {
		return nil
	}
	return fmt.Errorf("%w (sanitized payload snippet: %s)", sanitizedErr, summarizePayloadSnippet(sanitized))
}

func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFenceBlock(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	if start := strings.Index(trimmed, "["); start >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
