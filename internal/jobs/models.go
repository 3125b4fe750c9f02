package jobs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a composer job.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusRunning,
	StatusFinished,
	StatusFailed,
}

// AllStatuses returns the known statuses in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", value)
}

// IsTerminal reports whether the job can no longer change state.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusFailed
}

// Type distinguishes the operation a job performs.
type Type string

const (
	TypeMux    Type = "mux"
	TypeEncode Type = "encode"
)

// Args captures the inputs a job was submitted with.
type Args struct {
	VideoURI   string `json:"video_uri,omitempty"`
	AudioURI   string `json:"audio_uri,omitempty"`
	SourceURI  string `json:"source_uri,omitempty"`
	VideoTrack string `json:"video_track,omitempty"`
	AudioTrack string `json:"audio_track,omitempty"`
	Track      string `json:"track,omitempty"`
}

// Job is a persisted composer job.
type Job struct {
	ID         int64
	Type       Type
	Profile    string
	Status     Status
	Args       Args
	Payload    string
	Error      string
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// QueueTime reports how long the job waited before it started running.
func (j *Job) QueueTime() time.Duration {
	if j == nil || j.StartedAt == nil || j.CreatedAt.IsZero() {
		return 0
	}
	wait := j.StartedAt.Sub(j.CreatedAt)
	if wait < 0 {
		return 0
	}
	return wait
}

// RunTime reports how long the job ran, or zero when it has not finished.
func (j *Job) RunTime() time.Duration {
	if j == nil || j.StartedAt == nil || j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(*j.StartedAt)
}

func encodeArgs(args Args) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal job args: %w", err)
	}
	return string(data), nil
}

func decodeArgs(raw string) Args {
	var args Args
	if strings.TrimSpace(raw) == "" {
		return args
	}
	_ = json.Unmarshal([]byte(raw), &args)
	return args
}
