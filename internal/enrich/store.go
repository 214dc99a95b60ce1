package enrich

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"curator/internal/library"
)

const jobColumns = "id, status, options_json, total_items, processed, transcribed, summarized, categorized, area_assigned, key_points_added, failed, skipped, current_item, error, errors_json, created_at, started_at, completed_at, updated_at"

// Store persists enrichment jobs in the shared library database.
type Store struct {
	db *sql.DB
}

// NewStore wires job persistence onto the library's SQLite handle.
func NewStore(lib *library.Store) *Store {
	return &Store{db: lib.DB()}
}

// Insert writes a freshly created job.
func (s *Store) Insert(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	optionsJSON, errorsJSON, err := encodeJobFields(job)
	if err != nil {
		return err
	}
	job.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO enrichment_jobs (`+jobColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		string(job.Status),
		optionsJSON,
		job.TotalItems,
		job.Processed,
		job.Transcribed,
		job.Summarized,
		job.Categorized,
		job.AreaAssigned,
		job.KeyPointsAdded,
		job.Failed,
		job.Skipped,
		nullable(job.CurrentItem),
		nullable(job.Error),
		errorsJSON,
		job.CreatedAt.UTC().Format(time.RFC3339Nano),
		nullableTimestamp(job.StartedAt),
		nullableTimestamp(job.CompletedAt),
		job.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Update persists the job's current counters and state.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	optionsJSON, errorsJSON, err := encodeJobFields(job)
	if err != nil {
		return err
	}
	job.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`UPDATE enrichment_jobs
         SET status = ?, options_json = ?, total_items = ?, processed = ?, transcribed = ?,
             summarized = ?, categorized = ?, area_assigned = ?, key_points_added = ?,
             failed = ?, skipped = ?, current_item = ?, error = ?, errors_json = ?,
             started_at = ?, completed_at = ?, updated_at = ?
         WHERE id = ?`,
		string(job.Status),
		optionsJSON,
		job.TotalItems,
		job.Processed,
		job.Transcribed,
		job.Summarized,
		job.Categorized,
		job.AreaAssigned,
		job.KeyPointsAdded,
		job.Failed,
		job.Skipped,
		nullable(job.CurrentItem),
		nullable(job.Error),
		errorsJSON,
		nullableTimestamp(job.StartedAt),
		nullableTimestamp(job.CompletedAt),
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// Get fetches one job by id. Missing jobs return (nil, nil).
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM enrichment_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns all known jobs, newest first.
func (s *Store) List(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM enrichment_jobs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Delete removes a job from history and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM enrichment_jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RecoverStale marks jobs left non-terminal by a previous process as failed.
// A restarted daemon never resumes a run; callers start a fresh job instead.
func (s *Store) RecoverStale(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE enrichment_jobs
         SET status = ?, error = ?, completed_at = ?, updated_at = ?, current_item = NULL
         WHERE status IN (?, ?, ?)`,
		string(StatusFailed),
		"interrupted by process restart",
		now,
		now,
		string(StatusPending),
		string(StatusRunning),
		string(StatusPaused),
	)
	if err != nil {
		return 0, fmt.Errorf("recover stale jobs: %w", err)
	}
	return res.RowsAffected()
}

func encodeJobFields(job *Job) (string, string, error) {
	optionsJSON, err := json.Marshal(job.Options)
	if err != nil {
		return "", "", fmt.Errorf("marshal options: %w", err)
	}
	errorsList := job.Errors
	if errorsList == nil {
		errorsList = []string{}
	}
	errorsJSON, err := json.Marshal(errorsList)
	if err != nil {
		return "", "", fmt.Errorf("marshal errors: %w", err)
	}
	return string(optionsJSON), string(errorsJSON), nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job          Job
		statusStr    string
		optionsRaw   string
		currentItem  sql.NullString
		errorMessage sql.NullString
		errorsRaw    sql.NullString
		createdRaw   string
		startedRaw   sql.NullString
		completedRaw sql.NullString
		updatedRaw   string
	)

	if err := scanner.Scan(
		&job.ID,
		&statusStr,
		&optionsRaw,
		&job.TotalItems,
		&job.Processed,
		&job.Transcribed,
		&job.Summarized,
		&job.Categorized,
		&job.AreaAssigned,
		&job.KeyPointsAdded,
		&job.Failed,
		&job.Skipped,
		&currentItem,
		&errorMessage,
		&errorsRaw,
		&createdRaw,
		&startedRaw,
		&completedRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	job.Status = Status(statusStr)
	job.CurrentItem = currentItem.String
	job.Error = errorMessage.String

	if err := json.Unmarshal([]byte(optionsRaw), &job.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	if errorsRaw.Valid && errorsRaw.String != "" {
		if err := json.Unmarshal([]byte(errorsRaw.String), &job.Errors); err != nil {
			return nil, fmt.Errorf("decode errors: %w", err)
		}
	}
	if len(job.Errors) == 0 {
		job.Errors = nil
	}

	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	if startedRaw.Valid {
		if started, err := time.Parse(time.RFC3339Nano, startedRaw.String); err == nil {
			job.StartedAt = &started
		}
	}
	if completedRaw.Valid {
		if completed, err := time.Parse(time.RFC3339Nano, completedRaw.String); err == nil {
			job.CompletedAt = &completed
		}
	}
	return &job, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTimestamp(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}
