package library

import (
	"context"
	"database/sql"
	"fmt"
)

// Counts tallies enrichment artifact coverage for a slice of the library.
// Archived items are excluded from Total and every artifact count; Archived
// carries them separately so coverage reflects what a job could still touch.
type Counts struct {
	Total          int `json:"total"`
	Archived       int `json:"archived"`
	WithTranscript int `json:"with_transcript"`
	WithSummary    int `json:"with_summary"`
	WithKeyPoints  int `json:"with_key_points"`
	WithCategory   int `json:"with_category"`
	WithArea       int `json:"with_area"`
	FullyEnriched  int `json:"fully_enriched"`
}

// SourceStats is the coverage for a single source.
type SourceStats struct {
	Source Source `json:"source"`
	Counts
}

// ChannelStats is the coverage for a single curated channel.
type ChannelStats struct {
	ChannelID   int64  `json:"channel_id"`
	ChannelName string `json:"channel_name,omitempty"`
	Counts
}

// Stats is the full enrichment coverage report.
type Stats struct {
	Counts
	BySource  []SourceStats  `json:"by_source"`
	ByChannel []ChannelStats `json:"by_channel"`
}

const countColumns = `
    SUM(CASE WHEN archived = 0 THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived != 0 THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived = 0 AND transcript IS NOT NULL AND transcript != '' THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived = 0 AND summary IS NOT NULL AND summary != '' THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived = 0 AND key_points_json IS NOT NULL AND key_points_json != '' AND key_points_json != '[]' THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived = 0 AND category IS NOT NULL AND category != '' THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived = 0 AND area IS NOT NULL AND area != '' THEN 1 ELSE 0 END),
    SUM(CASE WHEN archived = 0
              AND transcript IS NOT NULL AND transcript != ''
              AND summary IS NOT NULL AND summary != ''
              AND category IS NOT NULL AND category != ''
              AND area IS NOT NULL AND area != '' THEN 1 ELSE 0 END)`

// EnrichmentStats aggregates artifact coverage over the non-archived
// library, broken down by source and by curated channel.
func (s *Store) EnrichmentStats(ctx context.Context) (*Stats, error) {
	ctx = ensureContext(ctx)
	stats := &Stats{}

	row := s.db.QueryRowContext(ctx, `SELECT `+countColumns+` FROM library_items`)
	if err := scanCounts(row, &stats.Counts); err != nil {
		return nil, fmt.Errorf("aggregate totals: %w", err)
	}

	sourceRows, err := s.db.QueryContext(ctx,
		`SELECT source, `+countColumns+` FROM library_items GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("aggregate by source: %w", err)
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var entry SourceStats
		var sourceStr string
		if err := scanCounts(sourceRows, &entry.Counts, &sourceStr); err != nil {
			return nil, fmt.Errorf("scan source stats: %w", err)
		}
		entry.Source = Source(sourceStr)
		stats.BySource = append(stats.BySource, entry)
	}
	if err := sourceRows.Err(); err != nil {
		return nil, err
	}

	channelRows, err := s.db.QueryContext(ctx,
		`SELECT channel_id, COALESCE(MAX(channel_name), ''), `+countColumns+`
         FROM library_items WHERE channel_id IS NOT NULL
         GROUP BY channel_id ORDER BY channel_id`)
	if err != nil {
		return nil, fmt.Errorf("aggregate by channel: %w", err)
	}
	defer channelRows.Close()
	for channelRows.Next() {
		var entry ChannelStats
		if err := scanCounts(channelRows, &entry.Counts, &entry.ChannelID, &entry.ChannelName); err != nil {
			return nil, fmt.Errorf("scan channel stats: %w", err)
		}
		stats.ByChannel = append(stats.ByChannel, entry)
	}
	return stats, channelRows.Err()
}

// scanCounts scans any leading key columns followed by the countColumns set.
// SUM over an empty table yields NULL, hence the nullable intermediates.
func scanCounts(scanner interface{ Scan(dest ...any) error }, counts *Counts, keys ...any) error {
	var (
		total      sql.NullInt64
		archived   sql.NullInt64
		transcript sql.NullInt64
		summary    sql.NullInt64
		keyPoints  sql.NullInt64
		category   sql.NullInt64
		area       sql.NullInt64
		full       sql.NullInt64
	)
	dest := append(keys,
		&total, &archived, &transcript, &summary, &keyPoints, &category, &area, &full)
	if err := scanner.Scan(dest...); err != nil {
		return err
	}
	counts.Total = int(total.Int64)
	counts.Archived = int(archived.Int64)
	counts.WithTranscript = int(transcript.Int64)
	counts.WithSummary = int(summary.Int64)
	counts.WithKeyPoints = int(keyPoints.Int64)
	counts.WithCategory = int(category.Int64)
	counts.WithArea = int(area.Int64)
	counts.FullyEnriched = int(full.Int64)
	return nil
}
