package jobs

import (
	"database/sql"
	"errors"
	"time"
)

const jobColumns = "id, job_type, profile, status, args_json, payload, error_message, created_at, started_at, finished_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id          int64
		jobType     string
		profile     string
		statusStr   string
		argsJSON    sql.NullString
		payload     sql.NullString
		errorMsg    sql.NullString
		createdRaw  sql.NullString
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&jobType,
		&profile,
		&statusStr,
		&argsJSON,
		&payload,
		&errorMsg,
		&createdRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:      id,
		Type:    Type(jobType),
		Profile: profile,
		Status:  Status(statusStr),
		Args:    decodeArgs(argsJSON.String),
		Payload: payload.String,
		Error:   errorMsg.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			job.StartedAt = &started
		}
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			job.FinishedAt = &finished
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
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
