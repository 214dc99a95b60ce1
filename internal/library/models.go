package library

import (
	"strings"
	"time"
)

// Source identifies where a library item was ingested from.
type Source string

const (
	SourceYouTube        Source = "youtube"
	SourceTikTok         Source = "tiktok"
	SourceSubscription   Source = "subscription"
	SourceLikedVideos    Source = "liked_videos"
	SourcePlaylist       Source = "playlist"
	SourceCuratedChannel Source = "curated_channel"
)

var allSources = []Source{
	SourceYouTube,
	SourceTikTok,
	SourceSubscription,
	SourceLikedVideos,
	SourcePlaylist,
	SourceCuratedChannel,
}

// youtubeSources are the ingestion sources backed by YouTube; the "youtube"
// scope covers all of them.
var youtubeSources = []Source{
	SourceYouTube,
	SourceSubscription,
	SourceLikedVideos,
	SourcePlaylist,
}

// IsValidSource reports whether the value names a known ingestion source.
func IsValidSource(value string) bool {
	for _, s := range allSources {
		if string(s) == value {
			return true
		}
	}
	return false
}

// SourcesForScope expands a scope value into the concrete sources it covers.
// An empty or "all" scope returns nil, meaning no source filter.
func SourcesForScope(scope string) []Source {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "", "all":
		return nil
	case "youtube":
		return youtubeSources
	case "tiktok":
		return []Source{SourceTikTok}
	default:
		if IsValidSource(scope) {
			return []Source{Source(scope)}
		}
		return nil
	}
}

// Item represents a single media entry persisted in SQLite.
type Item struct {
	ID          int64
	Source      Source
	ChannelID   int64 // 0 when the item is not attached to a curated channel
	ChannelName string
	ExternalID  string
	URL         string
	Title       string
	Author      string
	Description string
	Tags        []string
	UploadDate  string // platform upload date as provided, YYYYMMDD
	Archived    bool

	Transcript       string
	TranscriptSource string
	Summary          string
	KeyPoints        []string
	Category         string
	Subcategories    []string
	Area             string
	EnrichedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTranscript reports whether the transcript artifact is present.
func (i *Item) HasTranscript() bool { return strings.TrimSpace(i.Transcript) != "" }

// HasSummary reports whether the summary artifact is present.
func (i *Item) HasSummary() bool { return strings.TrimSpace(i.Summary) != "" }

// HasKeyPoints reports whether any key points are present.
func (i *Item) HasKeyPoints() bool { return len(i.KeyPoints) > 0 }

// HasCategory reports whether a category has been assigned.
func (i *Item) HasCategory() bool { return strings.TrimSpace(i.Category) != "" }

// HasArea reports whether a taxonomic area has been assigned.
func (i *Item) HasArea() bool { return strings.TrimSpace(i.Area) != "" }

// IsYouTube reports whether the item is served by YouTube, which decides the
// subtitle-first transcription strategy.
func (i *Item) IsYouTube() bool {
	url := strings.ToLower(i.URL)
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return true
	}
	if strings.Contains(url, "tiktok") {
		return false
	}
	for _, s := range youtubeSources {
		if i.Source == s {
			return true
		}
	}
	return false
}

// BestText returns the richest text available for language-model calls:
// the transcript when present, otherwise the description, otherwise the title.
func (i *Item) BestText() string {
	if i.HasTranscript() {
		return i.Transcript
	}
	if desc := strings.TrimSpace(i.Description); desc != "" {
		return desc
	}
	return strings.TrimSpace(i.Title)
}

// Label returns a short human identifier used in job progress and error lists.
func (i *Item) Label() string {
	title := strings.TrimSpace(i.Title)
	const max = 40
	if runes := []rune(title); len(runes) > max {
		title = string(runes[:max]) + "…"
	}
	if title == "" {
		title = "(untitled)"
	}
	return title
}
