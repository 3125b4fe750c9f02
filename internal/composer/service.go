package composer

import (
	"context"
	"errors"
	"time"

	"trackmux/internal/jobs"
	"trackmux/internal/mediapackage"
)

// Built-in profile identifiers.
const (
	ProfileMuxAV     = "mux-av.work"
	ProfileVideoOnly = "video-only.work"
)

// ErrProfileNotFound reports an unknown encoding profile.
var ErrProfileNotFound = errors.New("encoding profile not found")

// Profile is a named encoding recipe.
type Profile struct {
	ID          string
	Description string
	// Inputs is the number of source tracks the profile consumes (1 or 2).
	Inputs int
	// Audio reports whether produced tracks carry an audio stream.
	Audio bool
	// Suffix overrides the output extension. Empty keeps the first input's extension.
	Suffix string
	Args   []string
}

// Job is a handle to a submitted composer job.
type Job struct {
	ID      int64
	Type    jobs.Type
	Profile string
}

// Result is the terminal outcome of a job.
type Result struct {
	Succeeded bool
	// Payload is the serialized track descriptor of the produced track.
	Payload   string
	QueueTime time.Duration
	Error     string
}

// Service submits composition jobs and waits for their results.
type Service interface {
	Profile(ctx context.Context, id string) (Profile, error)
	Mux(ctx context.Context, video, audio *mediapackage.Track, profileID string) (Job, error)
	Encode(ctx context.Context, track *mediapackage.Track, profileID string) (Job, error)
	Wait(ctx context.Context, job Job) (Result, error)
}
