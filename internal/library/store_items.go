package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const itemColumns = "id, source, channel_id, channel_name, external_id, url, title, author, description, tags_json, upload_date, archived, transcript, transcript_source, summary, key_points_json, category, subcategories_json, area, enriched_at, created_at, updated_at"

// Selection narrows the set of items a caller wants back. Zero values
// leave the corresponding dimension unconstrained; the shortcut flags
// compose with AND semantics.
type Selection struct {
	Sources           []Source
	ChannelID         int64
	WithoutArea       bool
	WithoutSummary    bool
	WithoutKeyPoints  bool
	WithoutTranscript bool
	ExcludeArchived   bool
	Limit             int
}

// Add inserts a new library item and returns it with its assigned identifier.
func (s *Store) Add(ctx context.Context, item *Item) (*Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if !IsValidSource(string(item.Source)) {
		return nil, fmt.Errorf("unknown source %q", item.Source)
	}
	if strings.TrimSpace(item.URL) == "" {
		return nil, errors.New("item url is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tagsJSON, err := marshalStrings(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO library_items (
            source, channel_id, channel_name, external_id, url, title, author,
            description, tags_json, upload_date, archived, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(item.Source),
		nullableID(item.ChannelID),
		nullableString(item.ChannelName),
		nullableString(item.ExternalID),
		item.URL,
		item.Title,
		nullableString(item.Author),
		nullableString(item.Description),
		tagsJSON,
		nullableString(item.UploadDate),
		boolToInt(item.Archived),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a library item by identifier. Missing items return (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM library_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns items matching the selection ordered by creation time.
func (s *Store) List(ctx context.Context, sel Selection) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM library_items`
	where, args := sel.clauses()
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`
	if sel.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, sel.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems reports how many items match the selection, ignoring its limit.
func (s *Store) CountItems(ctx context.Context, sel Selection) (int, error) {
	query := `SELECT COUNT(1) FROM library_items`
	where, args := sel.clauses()
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

func (sel Selection) clauses() ([]string, []any) {
	var (
		where []string
		args  []any
	)
	if len(sel.Sources) > 0 {
		placeholders := makePlaceholders(len(sel.Sources))
		where = append(where, `source IN (`+placeholders+`)`)
		for _, source := range sel.Sources {
			args = append(args, string(source))
		}
	}
	if sel.ChannelID > 0 {
		where = append(where, `channel_id = ?`)
		args = append(args, sel.ChannelID)
	}
	if sel.WithoutArea {
		where = append(where, `(area IS NULL OR area = '')`)
	}
	if sel.WithoutSummary {
		where = append(where, `(summary IS NULL OR summary = '')`)
	}
	if sel.WithoutKeyPoints {
		where = append(where, `(key_points_json IS NULL OR key_points_json = '' OR key_points_json = '[]')`)
	}
	if sel.WithoutTranscript {
		where = append(where, `(transcript IS NULL OR transcript = '')`)
	}
	if sel.ExcludeArchived {
		where = append(where, `archived = 0`)
	}
	return where, args
}

// WriteTranscript stores transcript text and how it was obtained.
func (s *Store) WriteTranscript(ctx context.Context, id int64, transcript, transcriptSource string) error {
	if strings.TrimSpace(transcript) == "" {
		return errors.New("transcript is empty")
	}
	return s.touchItem(ctx, id, "write transcript",
		`UPDATE library_items SET transcript = ?, transcript_source = ?, enriched_at = ?, updated_at = ? WHERE id = ?`,
		transcript, nullableString(transcriptSource))
}

// WriteSummary stores the generated summary text.
func (s *Store) WriteSummary(ctx context.Context, id int64, summary string) error {
	if strings.TrimSpace(summary) == "" {
		return errors.New("summary is empty")
	}
	return s.touchItem(ctx, id, "write summary",
		`UPDATE library_items SET summary = ?, enriched_at = ?, updated_at = ? WHERE id = ?`,
		summary)
}

// WriteKeyPoints stores the extracted key points.
func (s *Store) WriteKeyPoints(ctx context.Context, id int64, keyPoints []string) error {
	if len(keyPoints) == 0 {
		return errors.New("key points are empty")
	}
	encoded, err := marshalStrings(keyPoints)
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	return s.touchItem(ctx, id, "write key points",
		`UPDATE library_items SET key_points_json = ?, enriched_at = ?, updated_at = ? WHERE id = ?`,
		encoded)
}

// WriteCategory stores the category along with its subcategories.
func (s *Store) WriteCategory(ctx context.Context, id int64, category string, subcategories []string) error {
	if strings.TrimSpace(category) == "" {
		return errors.New("category is empty")
	}
	encoded, err := marshalStrings(subcategories)
	if err != nil {
		return fmt.Errorf("marshal subcategories: %w", err)
	}
	return s.touchItem(ctx, id, "write category",
		`UPDATE library_items SET category = ?, subcategories_json = ?, enriched_at = ?, updated_at = ? WHERE id = ?`,
		category, encoded)
}

// WriteArea stores the taxonomic area.
func (s *Store) WriteArea(ctx context.Context, id int64, area string) error {
	if strings.TrimSpace(area) == "" {
		return errors.New("area is empty")
	}
	return s.touchItem(ctx, id, "write area",
		`UPDATE library_items SET area = ?, enriched_at = ?, updated_at = ? WHERE id = ?`,
		area)
}

// SetArchived flips the archived flag.
func (s *Store) SetArchived(ctx context.Context, id int64, archived bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE library_items SET archived = ?, updated_at = ? WHERE id = ?`,
		boolToInt(archived), now, id,
	); err != nil {
		return fmt.Errorf("set archived: %w", err)
	}
	return nil
}

// Remove deletes an item by identifier and reports whether it existed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM library_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// touchItem runs an artifact update that also stamps enriched_at and updated_at.
// The query must end with `enriched_at = ?, updated_at = ? WHERE id = ?` so the
// trailing placeholders line up.
func (s *Store) touchItem(ctx context.Context, id int64, op, query string, args ...any) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	args = append(args, now, now, id)
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: item %d not found", op, id)
	}
	return nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		sourceStr        string
		channelID        sql.NullInt64
		channelName      sql.NullString
		externalID       sql.NullString
		url              string
		title            string
		author           sql.NullString
		description      sql.NullString
		tagsRaw          sql.NullString
		uploadDate       sql.NullString
		archived         sql.NullInt64
		transcript       sql.NullString
		transcriptSource sql.NullString
		summary          sql.NullString
		keyPointsRaw     sql.NullString
		category         sql.NullString
		subcategoriesRaw sql.NullString
		area             sql.NullString
		enrichedRaw      sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourceStr,
		&channelID,
		&channelName,
		&externalID,
		&url,
		&title,
		&author,
		&description,
		&tagsRaw,
		&uploadDate,
		&archived,
		&transcript,
		&transcriptSource,
		&summary,
		&keyPointsRaw,
		&category,
		&subcategoriesRaw,
		&area,
		&enrichedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:               id,
		Source:           Source(sourceStr),
		ChannelID:        channelID.Int64,
		ChannelName:      channelName.String,
		ExternalID:       externalID.String,
		URL:              url,
		Title:            title,
		Author:           author.String,
		Description:      description.String,
		UploadDate:       uploadDate.String,
		Transcript:       transcript.String,
		TranscriptSource: transcriptSource.String,
		Summary:          summary.String,
		Category:         category.String,
		Area:             area.String,
	}
	if archived.Valid {
		item.Archived = archived.Int64 != 0
	}

	var err error
	if item.Tags, err = unmarshalStrings(tagsRaw.String); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if item.KeyPoints, err = unmarshalStrings(keyPointsRaw.String); err != nil {
		return nil, fmt.Errorf("decode key points: %w", err)
	}
	if item.Subcategories, err = unmarshalStrings(subcategoriesRaw.String); err != nil {
		return nil, fmt.Errorf("decode subcategories: %w", err)
	}

	if enrichedRaw.Valid {
		if enriched, err := parseTimeString(enrichedRaw.String); err == nil {
			item.EnrichedAt = &enriched
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func marshalStrings(values []string) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func unmarshalStrings(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableID(value int64) any {
	if value <= 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
