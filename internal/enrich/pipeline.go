package enrich

import (
	"context"
	"log/slog"
	"strings"

	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/services/llm"
	"curator/internal/services/transcriber"
)

// Step names used in errors_list entries and log fields.
const (
	stepTranscribe = "transcribe"
	stepSummarize  = "summarize"
	stepKeyPoints  = "key-points"
	stepCategorize = "categorize"
	stepAssignArea = "assign-area"
)

// Transcriber produces a transcript for one item.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcriber.Request) (transcriber.Result, error)
}

// LanguageModel generates summaries, key points, and taxonomy assignments.
type LanguageModel interface {
	Summarize(ctx context.Context, title, transcript string) (llm.Summary, error)
	Categorize(ctx context.Context, title, author, transcript string, categories []string) (string, error)
	Subcategories(ctx context.Context, title, author, category, transcript string) ([]string, error)
	AssignArea(ctx context.Context, title, author, transcript string, areas []string) (llm.AreaResult, error)
}

// healthChecker is implemented by the real model client; fakes may omit it.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Pipeline runs the enabled enrichment steps for one item in fixed order.
// Step failures stay with the item; only an unreachable service is fatal.
type Pipeline struct {
	store       *library.Store
	transcriber Transcriber
	model       LanguageModel
	categories  []string
	areas       []string
	logger      *slog.Logger
}

// NewPipeline wires the per-item pipeline.
func NewPipeline(store *library.Store, t Transcriber, model LanguageModel, categories, areas []string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		store:       store,
		transcriber: t,
		model:       model,
		categories:  categories,
		areas:       areas,
		logger:      logger,
	}
}

// Ready verifies the external services a run will need are reachable. A
// failure here is the fatal-at-start condition that fails the whole job.
func (p *Pipeline) Ready(ctx context.Context, opts Options) error {
	if !opts.IncludeSummary && !opts.IncludeCategorization {
		return nil
	}
	checker, ok := p.model.(healthChecker)
	if !ok {
		return nil
	}
	if err := checker.HealthCheck(ctx); err != nil {
		return services.Wrap(services.ErrUnavailable, "preflight", "Pipeline.Ready", "language model unreachable", err)
	}
	return nil
}

// Process runs the enabled steps for one item. Artifacts that succeed are
// persisted immediately; a failing step is recorded and later steps still
// run with whatever text is available.
func (p *Pipeline) Process(ctx context.Context, item *library.Item, opts Options) Outcome {
	var outcome Outcome
	if item == nil {
		return outcome
	}
	ctx = services.WithItemID(ctx, item.ID)
	log := p.logger.With(logging.Int64(logging.FieldItemID, item.ID))
	applicable := false

	// Transcription.
	if opts.IncludeTranscription && !item.HasTranscript() {
		applicable = true
		result, err := p.transcriber.Transcribe(services.WithStep(ctx, stepTranscribe), transcriber.Request{
			URL:             item.URL,
			ExternalID:      item.ExternalID,
			Model:           opts.TranscriptionModel,
			PreferSubtitles: item.IsYouTube(),
		})
		switch {
		case err == nil:
			if persistErr := p.store.WriteTranscript(ctx, item.ID, result.Text, result.Source); persistErr != nil {
				outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepTranscribe, persistErr))
			} else {
				item.Transcript = result.Text
				item.TranscriptSource = result.Source
				outcome.Transcribed = true
				log.Info("transcribed item",
					logging.String(logging.FieldStep, stepTranscribe),
					logging.String("transcript_source", result.Source))
			}
		case services.IsFatal(err):
			outcome.Fatal = err
			return outcome
		default:
			outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepTranscribe, err))
			log.Warn("transcription failed",
				logging.String(logging.FieldStep, stepTranscribe), logging.Error(err))
		}
	}

	// Summary plus key points from the same model call.
	if opts.IncludeSummary && !item.HasSummary() {
		applicable = true
		text := item.BestText()
		if strings.TrimSpace(text) == "" {
			outcome.Errors = append(outcome.Errors,
				itemError(item.Label(), stepSummarize, errNoText))
		} else {
			summary, err := p.model.Summarize(services.WithStep(ctx, stepSummarize), item.Title, text)
			switch {
			case err == nil:
				if persistErr := p.store.WriteSummary(ctx, item.ID, summary.Text); persistErr != nil {
					outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepSummarize, persistErr))
				} else {
					item.Summary = summary.Text
					outcome.Summarized = true
				}
				if opts.IncludeKeyPoints && !item.HasKeyPoints() && len(summary.KeyPoints) > 0 {
					if persistErr := p.store.WriteKeyPoints(ctx, item.ID, summary.KeyPoints); persistErr != nil {
						outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepKeyPoints, persistErr))
					} else {
						item.KeyPoints = summary.KeyPoints
						outcome.KeyPointsAdded = true
					}
				}
			case services.IsFatal(err):
				outcome.Fatal = err
				return outcome
			default:
				outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepSummarize, err))
				log.Warn("summarization failed",
					logging.String(logging.FieldStep, stepSummarize), logging.Error(err))
			}
		}
	}

	// Categorization, with area assignment on only_without_area runs.
	if opts.IncludeCategorization {
		if !item.HasCategory() {
			applicable = true
			category, err := p.model.Categorize(services.WithStep(ctx, stepCategorize),
				item.Title, item.Author, item.Transcript, p.categories)
			switch {
			case err == nil:
				var subcategories []string
				if opts.IncludeSubcategories {
					subcategories, err = p.model.Subcategories(services.WithStep(ctx, stepCategorize),
						item.Title, item.Author, category, item.Transcript)
					if err != nil {
						outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepCategorize, err))
						subcategories = nil
					}
				}
				if persistErr := p.store.WriteCategory(ctx, item.ID, category, subcategories); persistErr != nil {
					outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepCategorize, persistErr))
				} else {
					item.Category = category
					item.Subcategories = subcategories
					outcome.Categorized = true
				}
			case services.IsFatal(err):
				outcome.Fatal = err
				return outcome
			default:
				outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepCategorize, err))
				log.Warn("categorization failed",
					logging.String(logging.FieldStep, stepCategorize), logging.Error(err))
			}
		}

		if opts.OnlyWithoutArea && !item.HasArea() {
			applicable = true
			result, err := p.model.AssignArea(services.WithStep(ctx, stepAssignArea),
				item.Title, item.Author, item.Transcript, p.areas)
			switch {
			case err == nil && result.Area != "":
				if persistErr := p.store.WriteArea(ctx, item.ID, result.Area); persistErr != nil {
					outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepAssignArea, persistErr))
				} else {
					item.Area = result.Area
					outcome.AreaAssigned = true
				}
			case err == nil:
				log.Info("model declined to assign area",
					logging.String(logging.FieldStep, stepAssignArea),
					logging.String("confidence", result.Confidence))
			case services.IsFatal(err):
				outcome.Fatal = err
				return outcome
			default:
				outcome.Errors = append(outcome.Errors, itemError(item.Label(), stepAssignArea, err))
			}
		}
	}

	if !applicable {
		outcome.Skipped = true
	}
	return outcome
}

var errNoText = &noTextError{}

type noTextError struct{}

func (*noTextError) Error() string { return "no transcript, description, or title text available" }
