package composer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trackmux/internal/config"
	"trackmux/internal/jobs"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
)

type okExecutor struct{}

func (okExecutor) Execute(context.Context, *jobs.Job, Profile) (*mediapackage.Track, error) {
	return &mediapackage.Track{URI: "file:///out/job.mp4", HasVideo: true}, nil
}

// brokenStore fails selected transitions of an otherwise working store.
type brokenStore struct {
	*jobs.Store
	markRunningErr error
	finishErr      error
}

func (s *brokenStore) MarkRunning(ctx context.Context, id int64) error {
	if s.markRunningErr != nil {
		return s.markRunningErr
	}
	return s.Store.MarkRunning(ctx, id)
}

func (s *brokenStore) Finish(ctx context.Context, id int64, payload string) error {
	if s.finishErr != nil {
		return s.finishErr
	}
	return s.Store.Finish(ctx, id, payload)
}

func newLocalWithStore(t *testing.T, wrap func(*jobs.Store) jobStore) *Local {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = base
	cfg.Composer.OutputDir = filepath.Join(base, "composer")
	cfg.Composer.PollIntervalMS = 5

	store, err := jobs.OpenPath(filepath.Join(base, "jobs.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	local, err := NewLocal(&cfg, store, logging.NewNop(), WithExecutor(okExecutor{}))
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	local.store = wrap(store)
	t.Cleanup(func() { _ = local.Close() })
	return local
}

func TestStoreWriteFailureFailsJob(t *testing.T) {
	tests := []struct {
		name  string
		store func(*jobs.Store) jobStore
		want  string
	}{
		{
			name: "mark running",
			store: func(s *jobs.Store) jobStore {
				return &brokenStore{Store: s, markRunningErr: errors.New("database is locked")}
			},
			want: "mark job running",
		},
		{
			name: "finish",
			store: func(s *jobs.Store) jobStore {
				return &brokenStore{Store: s, finishErr: errors.New("database is locked")}
			},
			want: "record job result",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := newLocalWithStore(t, tt.store)
			track := &mediapackage.Track{ID: "v1", URI: "file:///media/presenter.mp4", HasVideo: true}
			job, err := local.Encode(context.Background(), track, ProfileVideoOnly)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			result, err := local.Wait(ctx, job)
			if err != nil {
				t.Fatalf("Wait: %v", err)
			}
			if result.Succeeded {
				t.Fatal("expected job to fail")
			}
			if !strings.Contains(result.Error, tt.want) {
				t.Fatalf("expected error mentioning %q, got %q", tt.want, result.Error)
			}
		})
	}
}
