package testsupport

import (
	"context"
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/jobs"
)

// MustOpenStore opens a jobs.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewMuxJob creates a queued mux job for tests using the provided store.
func NewMuxJob(t testing.TB, store *jobs.Store, profile string) *jobs.Job {
	t.Helper()

	job, err := store.Create(context.Background(), jobs.TypeMux, profile, jobs.Args{
		VideoURI: "file:///media/presenter.mp4",
		AudioURI: "file:///media/audio.m4a",
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return job
}
