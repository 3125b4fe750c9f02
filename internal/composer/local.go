package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"trackmux/internal/config"
	"trackmux/internal/jobs"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

// jobStore is the part of the job store the local composer drives.
type jobStore interface {
	Create(ctx context.Context, jobType jobs.Type, profile string, args jobs.Args) (*jobs.Job, error)
	GetByID(ctx context.Context, id int64) (*jobs.Job, error)
	MarkRunning(ctx context.Context, id int64) error
	Finish(ctx context.Context, id int64, payload string) error
	Fail(ctx context.Context, id int64, message string) error
}

// Local runs composer jobs in-process on a bounded worker pool. It is safe
// for concurrent use.
type Local struct {
	store    jobStore
	profiles *Registry
	executor Executor
	sem      *semaphore.Weighted
	poll     time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// LocalOption customizes a Local composer.
type LocalOption func(*Local)

// WithExecutor replaces the ffmpeg executor.
func WithExecutor(executor Executor) LocalOption {
	return func(l *Local) {
		if executor != nil {
			l.executor = executor
		}
	}
}

// WithRegistry replaces the profile registry.
func WithRegistry(registry *Registry) LocalOption {
	return func(l *Local) {
		if registry != nil {
			l.profiles = registry
		}
	}
}

// NewLocal constructs a composer backed by store and configured from cfg.
func NewLocal(cfg *config.Config, store *jobs.Store, logger *slog.Logger, opts ...LocalOption) (*Local, error) {
	if cfg == nil {
		return nil, errors.New("composer: config is required")
	}
	if store == nil {
		return nil, errors.New("composer: job store is required")
	}
	maxConcurrent := cfg.Composer.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	poll := time.Duration(cfg.Composer.PollIntervalMS) * time.Millisecond
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &Local{
		store:    store,
		profiles: NewRegistry(cfg.Composer.Profiles),
		executor: NewFFmpegExecutor(cfg.Composer.FFmpegBinary, cfg.Composer.OutputDir, logger),
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		poll:     poll,
		logger:   logging.NewComponentLogger(logger, "composer"),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Profiles exposes the registry backing this composer.
func (l *Local) Profiles() *Registry {
	return l.profiles
}

// Profile implements Service.
func (l *Local) Profile(_ context.Context, id string) (Profile, error) {
	return l.profiles.Get(strings.TrimSpace(id))
}

// Mux implements Service.
func (l *Local) Mux(ctx context.Context, video, audio *mediapackage.Track, profileID string) (Job, error) {
	if video == nil || audio == nil {
		return Job{}, services.Wrap(services.ErrValidation, "composer", "mux", "video and audio tracks are required", nil)
	}
	return l.submit(ctx, jobs.TypeMux, profileID, 2, jobs.Args{
		VideoURI:   video.URI,
		AudioURI:   audio.URI,
		VideoTrack: video.ID,
		AudioTrack: audio.ID,
	})
}

// Encode implements Service.
func (l *Local) Encode(ctx context.Context, track *mediapackage.Track, profileID string) (Job, error) {
	if track == nil {
		return Job{}, services.Wrap(services.ErrValidation, "composer", "encode", "track is required", nil)
	}
	return l.submit(ctx, jobs.TypeEncode, profileID, 1, jobs.Args{
		SourceURI: track.URI,
		Track:     track.ID,
	})
}

func (l *Local) submit(ctx context.Context, jobType jobs.Type, profileID string, inputs int, args jobs.Args) (Job, error) {
	if l.isClosed() {
		return Job{}, errClosed(jobType)
	}
	profile, err := l.profiles.Get(strings.TrimSpace(profileID))
	if err != nil {
		return Job{}, err
	}
	if profile.Inputs != inputs {
		return Job{}, services.Wrap(
			services.ErrValidation,
			"composer",
			string(jobType),
			fmt.Sprintf("profile %s takes %d input(s)", profile.ID, profile.Inputs),
			nil,
		)
	}

	record, err := l.store.Create(ctx, jobType, profile.ID, args)
	if err != nil {
		return Job{}, err
	}
	l.logger.Debug("job queued",
		logging.Int64(logging.FieldJobID, record.ID),
		logging.String(logging.FieldProfile, profile.ID),
		logging.String("job_type", string(jobType)),
	)

	if !l.startWorker() {
		l.fail(record.ID, "composer closed before job started", l.logger)
		return Job{}, errClosed(jobType)
	}
	go l.run(record.ID, profile)

	return Job{ID: record.ID, Type: jobType, Profile: profile.ID}, nil
}

func errClosed(jobType jobs.Type) error {
	return services.Wrap(services.ErrTransient, "composer", string(jobType), "composer is closed", nil)
}

func (l *Local) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// startWorker registers a worker unless Close has begun.
func (l *Local) startWorker() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.wg.Add(1)
	return true
}

func (l *Local) run(id int64, profile Profile) {
	defer l.wg.Done()
	logger := l.logger.With(logging.JobArgs(id, profile.ID)...)

	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		l.fail(id, "composer stopped before job started", logger)
		return
	}
	defer l.sem.Release(1)

	if err := l.store.MarkRunning(context.Background(), id); err != nil {
		l.fail(id, fmt.Sprintf("mark job running: %v", err), logger)
		return
	}
	record, err := l.store.GetByID(context.Background(), id)
	if err != nil || record == nil {
		l.fail(id, fmt.Sprintf("load job: %v", err), logger)
		return
	}

	track, err := l.executor.Execute(l.ctx, record, profile)
	if err != nil {
		l.fail(id, err.Error(), logger)
		return
	}
	payload, err := mediapackage.MarshalTrack(track)
	if err != nil {
		l.fail(id, err.Error(), logger)
		return
	}
	if err := l.store.Finish(context.Background(), id, payload); err != nil {
		l.fail(id, fmt.Sprintf("record job result: %v", err), logger)
		return
	}
	logger.Debug("job finished", logging.String("uri", track.URI))
}

func (l *Local) fail(id int64, message string, logger *slog.Logger) {
	logging.WarnWithContext(logger, "composer job failed", "composer_job_failed",
		logging.String("reason", message),
		logging.String(logging.FieldErrorHint, "inspect the job with 'trackmux jobs show'"),
	)
	if err := l.store.Fail(context.Background(), id, message); err != nil {
		logger.Error("record job failure failed", logging.Error(err))
	}
}

// Wait implements Service. It polls the job store until the job reaches a
// terminal state or ctx ends.
func (l *Local) Wait(ctx context.Context, job Job) (Result, error) {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		record, err := l.store.GetByID(ctx, job.ID)
		if err != nil {
			return Result{}, err
		}
		if record == nil {
			return Result{}, services.Wrap(services.ErrNotFound, "composer", "wait", fmt.Sprintf("job %d", job.ID), nil)
		}
		if record.Status.IsTerminal() {
			return Result{
				Succeeded: record.Status == jobs.StatusFinished,
				Payload:   record.Payload,
				QueueTime: record.QueueTime(),
				Error:     record.Error,
			}, nil
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops accepting jobs, cancels running ones, and waits for workers to exit.
func (l *Local) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
	l.wg.Wait()
	return nil
}
