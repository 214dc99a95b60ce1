package enrich

import (
	"fmt"
	"strings"

	"curator/internal/config"
	"curator/internal/library"
	"curator/internal/services"
)

// Options is the immutable configuration snapshot attached to a job at
// creation. Zero value means "enrich nothing"; use DefaultOptions for the
// everything-on starting point.
type Options struct {
	SourceScope      string `json:"source_scope,omitempty"`
	CuratedChannelID int64  `json:"curated_channel_id,omitempty"`

	IncludeTranscription  bool `json:"include_transcription"`
	IncludeSummary        bool `json:"include_summary"`
	IncludeKeyPoints      bool `json:"include_key_points"`
	IncludeCategorization bool `json:"include_categorization"`
	IncludeSubcategories  bool `json:"include_subcategories"`

	TranscriptionModel string `json:"transcription_model,omitempty"`
	Limit              int    `json:"limit,omitempty"`
	SkipProcessed      bool   `json:"skip_processed"`

	OnlyWithoutArea      bool `json:"only_without_area,omitempty"`
	OnlyWithoutKeyPoints bool `json:"only_without_key_points,omitempty"`
	OnlyWithoutSummary   bool `json:"only_without_summary,omitempty"`
}

// DefaultOptions enables every step over the whole library, skipping items
// that already have a transcript.
func DefaultOptions() Options {
	return Options{
		IncludeTranscription:  true,
		IncludeSummary:        true,
		IncludeKeyPoints:      true,
		IncludeCategorization: true,
		IncludeSubcategories:  true,
		SkipProcessed:         true,
	}
}

// Normalize auto-corrects recoverable inconsistencies in place and returns a
// note per correction. Key points consume the summary step's output, so
// requesting them without summaries disables the key-points step.
func (o *Options) Normalize() []string {
	var notes []string
	o.SourceScope = strings.ToLower(strings.TrimSpace(o.SourceScope))
	o.TranscriptionModel = strings.ToLower(strings.TrimSpace(o.TranscriptionModel))
	if o.IncludeKeyPoints && !o.IncludeSummary {
		o.IncludeKeyPoints = false
		notes = append(notes, "key points require summaries; disabled include_key_points")
	}
	if o.Limit < 0 {
		o.Limit = 0
		notes = append(notes, "negative limit ignored")
	}
	return notes
}

// Validate rejects configurations the pipeline must never see. Callers that
// want lenient handling run Normalize first.
func (o Options) Validate() error {
	if o.IncludeKeyPoints && !o.IncludeSummary {
		return services.Wrap(services.ErrValidation, "options", "enrich.Options.Validate",
			"include_key_points requires include_summary", nil)
	}
	if !o.IncludeTranscription && !o.IncludeSummary && !o.IncludeCategorization {
		return services.Wrap(services.ErrValidation, "options", "enrich.Options.Validate",
			"no enrichment steps enabled", nil)
	}
	if o.Limit < 0 {
		return services.Wrap(services.ErrValidation, "options", "enrich.Options.Validate",
			fmt.Sprintf("limit must be non-negative, got %d", o.Limit), nil)
	}
	if o.TranscriptionModel != "" && !config.IsWhisperModel(o.TranscriptionModel) {
		return services.Wrap(services.ErrValidation, "options", "enrich.Options.Validate",
			fmt.Sprintf("unknown transcription model %q", o.TranscriptionModel), nil)
	}
	if scope := strings.TrimSpace(o.SourceScope); scope != "" && scope != "all" {
		if scope != "youtube" && scope != "tiktok" && !library.IsValidSource(scope) {
			return services.Wrap(services.ErrValidation, "options", "enrich.Options.Validate",
				fmt.Sprintf("unknown source scope %q", o.SourceScope), nil)
		}
	}
	return nil
}

// Selection translates the options into the library query for candidate
// items. Multiple only_without_* shortcuts compose with AND semantics; the
// configuration surface treats them as radio buttons, but when several are
// set the strict intersection is the safe reading.
func (o Options) Selection() library.Selection {
	sel := library.Selection{
		Sources:         library.SourcesForScope(o.SourceScope),
		ChannelID:       o.CuratedChannelID,
		ExcludeArchived: true,
		Limit:           o.Limit,
	}
	if o.OnlyWithoutArea {
		sel.WithoutArea = true
	}
	if o.OnlyWithoutSummary {
		sel.WithoutSummary = true
	}
	if o.OnlyWithoutKeyPoints {
		sel.WithoutKeyPoints = true
	}
	if o.SkipProcessed {
		sel.WithoutTranscript = true
	}
	return sel
}
