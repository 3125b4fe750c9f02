package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trackmux/internal/services"
)

// Create inserts a queued job and returns the stored record.
func (s *Store) Create(ctx context.Context, jobType Type, profile string, args Args) (*Job, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, services.Wrap(services.ErrValidation, "jobs", "create", "profile is required", nil)
	}
	argsJSON, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO composer_jobs (job_type, profile, status, args_json, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		string(jobType),
		profile,
		StatusQueued,
		argsJSON,
		formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier. It returns nil when the job does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM composer_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// MarkRunning moves a queued job to running and stamps its start time.
func (s *Store) MarkRunning(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE composer_jobs SET status = ?, started_at = ? WHERE id = ? AND status = ?`,
		StatusRunning,
		formatTime(time.Now()),
		id,
		StatusQueued,
	)
	if err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	return expectOneRow(res, id, StatusQueued)
}

// Finish records a successful result for a running job.
func (s *Store) Finish(ctx context.Context, id int64, payload string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE composer_jobs SET status = ?, payload = ?, error_message = NULL, finished_at = ?
         WHERE id = ? AND status = ?`,
		StatusFinished,
		nullableString(payload),
		formatTime(time.Now()),
		id,
		StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return expectOneRow(res, id, StatusRunning)
}

// Fail records a failure for a queued or running job.
func (s *Store) Fail(ctx context.Context, id int64, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "job failed"
	}
	now := formatTime(time.Now())
	res, err := s.execWithRetry(
		ctx,
		`UPDATE composer_jobs
         SET status = ?, error_message = ?, finished_at = ?, started_at = COALESCE(started_at, ?)
         WHERE id = ? AND status IN (?, ?)`,
		StatusFailed,
		message,
		now,
		now,
		id,
		StatusQueued,
		StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return expectOneRow(res, id, StatusRunning)
}

// List returns jobs filtered by status set (or all jobs when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	ctx = ensureContext(ctx)
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + jobColumns + ` FROM composer_jobs`
	orderClause := ` ORDER BY id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
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

// Stats returns the number of jobs per status. Every known status is present.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(*) FROM composer_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, len(allStatuses))
	for _, status := range allStatuses {
		stats[status] = 0
	}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan job stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// ResetStuckRunning fails jobs left running by a previous process. The
// executor that owned them is gone, so they cannot finish.
func (s *Store) ResetStuckRunning(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE composer_jobs SET status = ?, error_message = ?, finished_at = ? WHERE status = ?`,
		StatusFailed,
		"interrupted: composer stopped while job was running",
		formatTime(time.Now()),
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck jobs: %w", err)
	}
	return res.RowsAffected()
}

// ClearFinished deletes jobs in a terminal state.
func (s *Store) ClearFinished(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM composer_jobs WHERE status IN (?, ?)`,
		StatusFinished,
		StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("clear finished jobs: %w", err)
	}
	return res.RowsAffected()
}

func expectOneRow(res sql.Result, id int64, want Status) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(
			services.ErrNotFound,
			"jobs",
			"transition",
			fmt.Sprintf("job %d not found in state %s", id, want),
			nil,
		)
	}
	return nil
}
