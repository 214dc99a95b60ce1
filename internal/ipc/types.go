package ipc

import "curator/internal/api"

// Job mirrors the HTTP API job DTO for internal IPC callers.
type Job = api.Job

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon status information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatabasePath string             `json:"database_path"`
	LockPath     string             `json:"lock_path"`
	ActiveJob    *Job               `json:"active_job,omitempty"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// EnrichStartRequest triggers a new enrichment job.
type EnrichStartRequest struct {
	Options api.StartEnrichmentRequest `json:"options"`
}

// EnrichStartResponse carries the created job and option corrections.
type EnrichStartResponse struct {
	Job   Job      `json:"job"`
	Notes []string `json:"notes,omitempty"`
}

// JobRequest addresses one job by id.
type JobRequest struct {
	ID string `json:"id"`
}

// JobResponse carries a single job snapshot.
type JobResponse struct {
	Job Job `json:"job"`
}

// JobDeleteResponse reports whether the job was removed.
type JobDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// JobListRequest fetches the job history.
type JobListRequest struct{}

// JobListResponse contains jobs, newest first.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// EnrichOnceRequest runs the full pipeline against a single item.
type EnrichOnceRequest struct {
	ItemID int64 `json:"item_id"`
}

// EnrichOnceResponse reports the pass outcome and the refreshed item.
type EnrichOnceResponse struct {
	Item    api.Item        `json:"item"`
	Outcome api.ItemOutcome `json:"outcome"`
}

// StatsRequest fetches enrichment coverage statistics.
type StatsRequest struct{}

// StatsResponse carries the aggregated coverage report.
type StatsResponse struct {
	Stats api.StatsResponse `json:"stats"`
}

// ItemListRequest filters library listing.
type ItemListRequest struct {
	Source string `json:"source,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ItemListResponse contains library entries.
type ItemListResponse struct {
	Items []api.Item `json:"items"`
}

// ItemAddRequest registers a new library entry.
type ItemAddRequest struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
	ExternalID  string `json:"external_id,omitempty"`
	UploadDate  string `json:"upload_date,omitempty"`
}

// ItemAddResponse carries the stored item with its assigned id.
type ItemAddResponse struct {
	Item api.Item `json:"item"`
}

// ItemGetRequest addresses one library entry by id.
type ItemGetRequest struct {
	ID int64 `json:"id"`
}

// ItemGetResponse carries one item plus its transcript text, which list
// payloads omit.
type ItemGetResponse struct {
	Item       api.Item `json:"item"`
	Transcript string   `json:"transcript,omitempty"`
}
