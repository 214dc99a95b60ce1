package api

import (
	"curator/internal/deps"
	"curator/internal/enrich"
	"curator/internal/library"
)

// FromJob converts a job record plus its derived estimate to the API
// representation. maxErrors truncates the error list for display; storage
// keeps the full list and ErrorsTotal reports the untruncated count.
func FromJob(job *enrich.Job, est enrich.Estimate, maxErrors int) Job {
	if job == nil {
		return Job{}
	}

	dto := Job{
		ID:             job.ID,
		Status:         string(job.Status),
		SourceScope:    job.Options.SourceScope,
		TotalItems:     job.TotalItems,
		Processed:      job.Processed,
		Transcribed:    job.Transcribed,
		Summarized:     job.Summarized,
		Categorized:    job.Categorized,
		AreaAssigned:   job.AreaAssigned,
		KeyPointsAdded: job.KeyPointsAdded,
		Failed:         job.Failed,
		Skipped:        job.Skipped,
		CurrentItem:    job.CurrentItem,
		ErrorMessage:   job.Error,
		ErrorsTotal:    len(job.Errors),

		ElapsedSeconds: est.Elapsed.Seconds(),
		EstimateKnown:  est.Known,
	}
	if est.Known {
		dto.AvgSecondsPerItem = est.AvgSecondsPerItem
		dto.ETASeconds = est.ETA.Seconds()
	}

	errorsList := job.Errors
	if maxErrors > 0 && len(errorsList) > maxErrors {
		errorsList = errorsList[:maxErrors]
	}
	if len(errorsList) > 0 {
		dto.Errors = append([]string(nil), errorsList...)
	}

	if !job.CreatedAt.IsZero() {
		dto.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if job.StartedAt != nil {
		dto.StartedAt = job.StartedAt.UTC().Format(dateTimeFormat)
	}
	if job.CompletedAt != nil {
		dto.CompletedAt = job.CompletedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// Options translates a start request into job options, layering explicit
// fields over the defaults so omitted booleans keep their default values.
func (r StartEnrichmentRequest) Options() enrich.Options {
	opts := enrich.DefaultOptions()
	opts.SourceScope = r.SourceScope
	opts.CuratedChannelID = r.CuratedChannelID
	opts.TranscriptionModel = r.TranscriptionModel
	opts.Limit = r.Limit
	opts.OnlyWithoutArea = r.OnlyWithoutArea
	opts.OnlyWithoutKeyPoints = r.OnlyWithoutKeyPoints
	opts.OnlyWithoutSummary = r.OnlyWithoutSummary

	if r.IncludeTranscription != nil {
		opts.IncludeTranscription = *r.IncludeTranscription
	}
	if r.IncludeSummary != nil {
		opts.IncludeSummary = *r.IncludeSummary
	}
	if r.IncludeKeyPoints != nil {
		opts.IncludeKeyPoints = *r.IncludeKeyPoints
	}
	if r.IncludeCategorization != nil {
		opts.IncludeCategorization = *r.IncludeCategorization
	}
	if r.IncludeSubcategories != nil {
		opts.IncludeSubcategories = *r.IncludeSubcategories
	}
	if r.SkipProcessed != nil {
		opts.SkipProcessed = *r.SkipProcessed
	}
	return opts
}

// FromItem converts a library record to its API representation.
func FromItem(item *library.Item) Item {
	if item == nil {
		return Item{}
	}
	dto := Item{
		ID:            item.ID,
		Source:        string(item.Source),
		ChannelName:   item.ChannelName,
		URL:           item.URL,
		Title:         item.Title,
		Author:        item.Author,
		UploadDate:    item.UploadDate,
		Archived:      item.Archived,
		HasTranscript: item.HasTranscript(),
		Summary:       item.Summary,
		Category:      item.Category,
		Area:          item.Area,
	}
	if len(item.KeyPoints) > 0 {
		dto.KeyPoints = append([]string(nil), item.KeyPoints...)
	}
	if len(item.Subcategories) > 0 {
		dto.Subcategories = append([]string(nil), item.Subcategories...)
	}
	if item.EnrichedAt != nil {
		dto.EnrichedAt = item.EnrichedAt.UTC().Format(dateTimeFormat)
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromOutcome converts a pipeline outcome to its API representation. The
// fatal error, if any, is surfaced through the RPC error path rather than
// the payload.
func FromOutcome(outcome enrich.Outcome) ItemOutcome {
	dto := ItemOutcome{
		Transcribed:    outcome.Transcribed,
		Summarized:     outcome.Summarized,
		KeyPointsAdded: outcome.KeyPointsAdded,
		Categorized:    outcome.Categorized,
		AreaAssigned:   outcome.AreaAssigned,
		Skipped:        outcome.Skipped,
	}
	if len(outcome.Errors) > 0 {
		dto.Errors = append([]string(nil), outcome.Errors...)
	}
	return dto
}

// FromStats converts the aggregator's output to its API representation.
func FromStats(stats *library.Stats) StatsResponse {
	if stats == nil {
		return StatsResponse{}
	}
	resp := StatsResponse{Counts: fromCounts(stats.Counts)}
	for _, src := range stats.BySource {
		resp.BySource = append(resp.BySource, SourceStats{
			Source: string(src.Source),
			Counts: fromCounts(src.Counts),
		})
	}
	for _, ch := range stats.ByChannel {
		resp.ByChannel = append(resp.ByChannel, ChannelStats{
			ChannelID:   ch.ChannelID,
			ChannelName: ch.ChannelName,
			Counts:      fromCounts(ch.Counts),
		})
	}
	return resp
}

func fromCounts(c library.Counts) EnrichmentCounts {
	return EnrichmentCounts{
		Total:          c.Total,
		Archived:       c.Archived,
		WithTranscript: c.WithTranscript,
		WithSummary:    c.WithSummary,
		WithKeyPoints:  c.WithKeyPoints,
		WithCategory:   c.WithCategory,
		WithArea:       c.WithArea,
		FullyEnriched:  c.FullyEnriched,
	}
}

// FromDependency converts a dependency probe result.
func FromDependency(status deps.Status) DependencyStatus {
	return DependencyStatus{
		Name:        status.Name,
		Command:     status.Command,
		Description: status.Description,
		Optional:    status.Optional,
		Available:   status.Available,
		Detail:      status.Detail,
	}
}
