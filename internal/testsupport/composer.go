package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trackmux/internal/composer"
	"trackmux/internal/jobs"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

// Submission records one job handed to a FakeComposer.
type Submission struct {
	Job     composer.Job
	Inputs  []*mediapackage.Track
	Payload string
}

// FakeComposer is an in-memory composer.Service. Jobs finish immediately;
// produced tracks are named job-<id> and carry no flavor.
type FakeComposer struct {
	mu          sync.Mutex
	profiles    map[string]composer.Profile
	failures    map[string]string
	queueTime   time.Duration
	nextID      int64
	submissions []Submission
	results     map[int64]composer.Result
}

// NewFakeComposer returns a fake that knows the built-in profiles.
func NewFakeComposer() *FakeComposer {
	return &FakeComposer{
		profiles: map[string]composer.Profile{
			composer.ProfileMuxAV:     {ID: composer.ProfileMuxAV, Inputs: 2, Audio: true},
			composer.ProfileVideoOnly: {ID: composer.ProfileVideoOnly, Inputs: 1},
		},
		failures: make(map[string]string),
		results:  make(map[int64]composer.Result),
	}
}

// RemoveProfile makes profile lookups for id fail.
func (f *FakeComposer) RemoveProfile(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, id)
}

// FailProfile makes every job using profile id fail with message.
func (f *FakeComposer) FailProfile(id, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = message
}

// SetQueueTime sets the queue time reported for each job.
func (f *FakeComposer) SetQueueTime(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queueTime = d
}

// Submissions returns a copy of the jobs submitted so far.
func (f *FakeComposer) Submissions() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Submission(nil), f.submissions...)
}

// Profile implements composer.Service.
func (f *FakeComposer) Profile(_ context.Context, id string) (composer.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[id]
	if !ok {
		return composer.Profile{}, services.Wrap(services.ErrNotFound, "composer", "profile", id, composer.ErrProfileNotFound)
	}
	return profile, nil
}

// Mux implements composer.Service.
func (f *FakeComposer) Mux(ctx context.Context, video, audio *mediapackage.Track, profileID string) (composer.Job, error) {
	return f.submit(ctx, jobs.TypeMux, profileID, video, audio)
}

// Encode implements composer.Service.
func (f *FakeComposer) Encode(ctx context.Context, track *mediapackage.Track, profileID string) (composer.Job, error) {
	return f.submit(ctx, jobs.TypeEncode, profileID, track)
}

func (f *FakeComposer) submit(ctx context.Context, typ jobs.Type, profileID string, inputs ...*mediapackage.Track) (composer.Job, error) {
	profile, err := f.Profile(ctx, profileID)
	if err != nil {
		return composer.Job{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	job := composer.Job{ID: f.nextID, Type: typ, Profile: profile.ID}

	snapshot := make([]*mediapackage.Track, len(inputs))
	for i, in := range inputs {
		snapshot[i] = in.Clone()
	}
	sub := Submission{Job: job, Inputs: snapshot}

	if message, failed := f.failures[profile.ID]; failed {
		f.results[job.ID] = composer.Result{Error: message, QueueTime: f.queueTime}
		f.submissions = append(f.submissions, sub)
		return job, nil
	}

	produced := &mediapackage.Track{
		ID:       fmt.Sprintf("job-%d", job.ID),
		URI:      fmt.Sprintf("file:///composer/job-%d/output%s", job.ID, mediapackage.Extension(inputs[0].URI)),
		MimeType: inputs[0].MimeType,
		HasVideo: true,
		HasAudio: profile.Audio,
	}
	payload, err := mediapackage.MarshalTrack(produced)
	if err != nil {
		return composer.Job{}, err
	}
	sub.Payload = payload
	f.submissions = append(f.submissions, sub)
	f.results[job.ID] = composer.Result{Succeeded: true, Payload: payload, QueueTime: f.queueTime}
	return job, nil
}

// Wait implements composer.Service.
func (f *FakeComposer) Wait(ctx context.Context, job composer.Job) (composer.Result, error) {
	if err := ctx.Err(); err != nil {
		return composer.Result{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result, ok := f.results[job.ID]
	if !ok {
		return composer.Result{}, services.Wrap(services.ErrNotFound, "composer", "wait", fmt.Sprintf("job %d", job.ID), nil)
	}
	return result, nil
}

// Move records one FakeWorkspace relocation.
type Move struct {
	URI            string
	MediaPackageID string
	ElementID      string
	FileName       string
}

// FakeWorkspace records relocations and returns ws://<mp>/<element>/<file> URIs.
type FakeWorkspace struct {
	mu    sync.Mutex
	moves []Move
	Err   error
}

// MoveTo implements workspace.Workspace.
func (w *FakeWorkspace) MoveTo(_ context.Context, uri, mediaPackageID, elementID, fileName string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return "", w.Err
	}
	w.moves = append(w.moves, Move{URI: uri, MediaPackageID: mediaPackageID, ElementID: elementID, FileName: fileName})
	return fmt.Sprintf("ws://%s/%s/%s", mediaPackageID, elementID, fileName), nil
}

// Moves returns a copy of the relocations recorded so far.
func (w *FakeWorkspace) Moves() []Move {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Move(nil), w.moves...)
}
