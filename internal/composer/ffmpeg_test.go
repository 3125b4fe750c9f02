package composer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"trackmux/internal/jobs"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

func TestFFmpegExecutorBuildsMuxCommand(t *testing.T) {
	base := t.TempDir()
	video := filepath.Join(base, "presenter.mp4")
	audio := filepath.Join(base, "narration.m4a")
	for _, path := range []string{video, audio} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}

	outDir := filepath.Join(base, "out")
	exec := NewFFmpegExecutor("ffmpeg", outDir, logging.NewNop())
	var gotName string
	var gotArgs []string
	exec.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("muxed"), 0o644)
	})

	profile := builtinProfiles()[0]
	job := &jobs.Job{
		ID:   7,
		Type: jobs.TypeMux,
		Args: jobs.Args{VideoURI: mediapackage.FileURI(video), AudioURI: audio},
	}
	track, err := exec.Execute(context.Background(), job, profile)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	wantOut := filepath.Join(outDir, "job-7", "presenter.mp4")
	wantArgs := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", video, "-i", audio, "-map", "0:v", "-map", "1:a", "-c", "copy", wantOut}
	if gotName != "ffmpeg" || !reflect.DeepEqual(gotArgs, wantArgs) {
		t.Fatalf("unexpected command: %s %v", gotName, gotArgs)
	}
	if track.URI != mediapackage.FileURI(wantOut) {
		t.Fatalf("unexpected output uri %q", track.URI)
	}
	if !track.HasAudio || !track.HasVideo || track.ID != "" {
		t.Fatalf("unexpected produced track %+v", track)
	}
}

func TestFFmpegExecutorHonoursSuffix(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "camera.mov")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	exec := NewFFmpegExecutor("", base, logging.NewNop())
	exec.WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		return os.WriteFile(args[len(args)-1], []byte("x"), 0o644)
	})
	profile := Profile{ID: "mkv.work", Inputs: 1, Suffix: ".mkv", Args: []string{"-c", "copy"}}
	track, err := exec.Execute(context.Background(), &jobs.Job{ID: 1, Type: jobs.TypeEncode, Args: jobs.Args{SourceURI: source}}, profile)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasSuffix(track.URI, "/job-1/camera.mkv") {
		t.Fatalf("unexpected output uri %q", track.URI)
	}
	if track.HasAudio {
		t.Fatal("expected profile without audio to produce a silent track")
	}
}

func TestFFmpegExecutorErrors(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "camera.mov")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	profile := Profile{ID: "video-only.work", Inputs: 1, Args: []string{"-an"}}

	tests := []struct {
		name   string
		job    *jobs.Job
		runErr error
		want   error
	}{
		{
			name: "missing input",
			job:  &jobs.Job{ID: 1, Type: jobs.TypeEncode, Args: jobs.Args{SourceURI: filepath.Join(base, "missing.mov")}},
			want: services.ErrNotFound,
		},
		{
			name: "remote input",
			job:  &jobs.Job{ID: 2, Type: jobs.TypeEncode, Args: jobs.Args{SourceURI: "s3://bucket/camera.mov"}},
			want: services.ErrValidation,
		},
		{
			name: "input count mismatch",
			job:  &jobs.Job{ID: 3, Type: jobs.TypeMux, Args: jobs.Args{VideoURI: source, AudioURI: source}},
			want: services.ErrValidation,
		},
		{
			name:   "ffmpeg failure",
			job:    &jobs.Job{ID: 4, Type: jobs.TypeEncode, Args: jobs.Args{SourceURI: source}},
			runErr: errors.New("exit status 1"),
			want:   services.ErrExternalTool,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := NewFFmpegExecutor("ffmpeg", base, logging.NewNop())
			exec.WithCommandRunner(func(context.Context, string, ...string) error { return tt.runErr })
			_, err := exec.Execute(context.Background(), tt.job, profile)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
