package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Job describes an enrichment job in a transport-friendly format.
type Job struct {
	ID             string   `json:"id"`
	Status         string   `json:"status"`
	SourceScope    string   `json:"sourceScope,omitempty"`
	TotalItems     int      `json:"totalItems"`
	Processed      int      `json:"processed"`
	Transcribed    int      `json:"transcribed"`
	Summarized     int      `json:"summarized"`
	Categorized    int      `json:"categorized"`
	AreaAssigned   int      `json:"areaAssigned"`
	KeyPointsAdded int      `json:"keyPointsAdded"`
	Failed         int      `json:"failed"`
	Skipped        int      `json:"skipped"`
	CurrentItem    string   `json:"currentItem,omitempty"`
	ErrorMessage   string   `json:"errorMessage,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	ErrorsTotal    int      `json:"errorsTotal"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	StartedAt      string   `json:"startedAt,omitempty"`
	CompletedAt    string   `json:"completedAt,omitempty"`

	ElapsedSeconds    float64 `json:"elapsedSeconds"`
	AvgSecondsPerItem float64 `json:"avgSecondsPerItem,omitempty"`
	ETASeconds        float64 `json:"etaSeconds,omitempty"`
	EstimateKnown     bool    `json:"estimateKnown"`
}

// StartEnrichmentRequest carries job options over the wire. Field names
// match the persisted options so clients can replay a previous job's
// configuration verbatim.
type StartEnrichmentRequest struct {
	SourceScope      string `json:"source_scope,omitempty"`
	CuratedChannelID int64  `json:"curated_channel_id,omitempty"`

	IncludeTranscription  *bool `json:"include_transcription,omitempty"`
	IncludeSummary        *bool `json:"include_summary,omitempty"`
	IncludeKeyPoints      *bool `json:"include_key_points,omitempty"`
	IncludeCategorization *bool `json:"include_categorization,omitempty"`
	IncludeSubcategories  *bool `json:"include_subcategories,omitempty"`

	TranscriptionModel string `json:"transcription_model,omitempty"`
	Limit              int    `json:"limit,omitempty"`
	SkipProcessed      *bool  `json:"skip_processed,omitempty"`

	OnlyWithoutArea      bool `json:"only_without_area,omitempty"`
	OnlyWithoutKeyPoints bool `json:"only_without_key_points,omitempty"`
	OnlyWithoutSummary   bool `json:"only_without_summary,omitempty"`
}

// StartEnrichmentResponse wraps the freshly created job.
type StartEnrichmentResponse struct {
	Job Job `json:"job"`
}

// JobListResponse wraps a collection of jobs.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// JobResponse wraps a single job.
type JobResponse struct {
	Job Job `json:"job"`
}

// Item describes a library entry in a transport-friendly format. Transcript
// text is omitted from list payloads; clients fetch it per item.
type Item struct {
	ID            int64    `json:"id"`
	Source        string   `json:"source"`
	ChannelName   string   `json:"channelName,omitempty"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	UploadDate    string   `json:"uploadDate,omitempty"`
	Archived      bool     `json:"archived"`
	HasTranscript bool     `json:"hasTranscript"`
	Summary       string   `json:"summary,omitempty"`
	KeyPoints     []string `json:"keyPoints,omitempty"`
	Category      string   `json:"category,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
	Area          string   `json:"area,omitempty"`
	EnrichedAt    string   `json:"enrichedAt,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}

// ItemOutcome reports what a single-item enrichment pass did.
type ItemOutcome struct {
	Transcribed    bool     `json:"transcribed"`
	Summarized     bool     `json:"summarized"`
	KeyPointsAdded bool     `json:"keyPointsAdded"`
	Categorized    bool     `json:"categorized"`
	AreaAssigned   bool     `json:"areaAssigned"`
	Skipped        bool     `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
}

// ItemListResponse wraps a collection of library items.
type ItemListResponse struct {
	Items []Item `json:"items"`
}

// EnrichmentCounts mirrors the per-artifact coverage counters.
type EnrichmentCounts struct {
	Total          int `json:"total"`
	Archived       int `json:"archived"`
	WithTranscript int `json:"withTranscript"`
	WithSummary    int `json:"withSummary"`
	WithKeyPoints  int `json:"withKeyPoints"`
	WithCategory   int `json:"withCategory"`
	WithArea       int `json:"withArea"`
	FullyEnriched  int `json:"fullyEnriched"`
}

// SourceStats carries coverage counters for one ingestion source.
type SourceStats struct {
	Source string           `json:"source"`
	Counts EnrichmentCounts `json:"counts"`
}

// ChannelStats carries coverage counters for one curated channel.
type ChannelStats struct {
	ChannelID   int64            `json:"channelId"`
	ChannelName string           `json:"channelName,omitempty"`
	Counts      EnrichmentCounts `json:"counts"`
}

// StatsResponse aggregates library-wide enrichment coverage.
type StatsResponse struct {
	Counts    EnrichmentCounts `json:"counts"`
	BySource  []SourceStats    `json:"bySource"`
	ByChannel []ChannelStats   `json:"byChannel"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatabasePath string             `json:"databasePath"`
	LockFilePath string             `json:"lockFilePath"`
	ActiveJob    *Job               `json:"activeJob,omitempty"`
	Dependencies []DependencyStatus `json:"dependencies"`
}
