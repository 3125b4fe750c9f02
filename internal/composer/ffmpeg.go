package composer

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"trackmux/internal/jobs"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Executor runs a single job and returns the produced track.
type Executor interface {
	Execute(ctx context.Context, job *jobs.Job, profile Profile) (*mediapackage.Track, error)
}

// FFmpegExecutor produces tracks by invoking ffmpeg with a profile's arguments.
type FFmpegExecutor struct {
	binary    string
	outputDir string
	logger    *slog.Logger
	run       commandRunner
}

// NewFFmpegExecutor constructs an executor writing into outputDir.
func NewFFmpegExecutor(binary, outputDir string, logger *slog.Logger) *FFmpegExecutor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpegExecutor{
		binary:    binary,
		outputDir: outputDir,
		logger:    logging.NewComponentLogger(logger, "ffmpeg"),
		run:       defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *FFmpegExecutor) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Execute implements Executor.
func (e *FFmpegExecutor) Execute(ctx context.Context, job *jobs.Job, profile Profile) (*mediapackage.Track, error) {
	if job == nil {
		return nil, fmt.Errorf("job is nil")
	}
	inputs, err := jobInputs(job)
	if err != nil {
		return nil, err
	}
	if len(inputs) != profile.Inputs {
		return nil, services.Wrap(
			services.ErrValidation,
			"composer",
			"execute",
			fmt.Sprintf("profile %s expects %d input(s), job %d has %d", profile.ID, profile.Inputs, job.ID, len(inputs)),
			nil,
		)
	}

	localInputs := make([]string, len(inputs))
	for i, uri := range inputs {
		path, err := mediapackage.LocalPath(uri)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "composer", "execute", "resolve input", err)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, services.Wrap(services.ErrNotFound, "composer", "execute", "input not found", err)
		}
		localInputs[i] = path
	}

	extension := profile.Suffix
	if extension == "" {
		extension = filepath.Ext(localInputs[0])
	}
	jobDir := filepath.Join(e.outputDir, "job-"+strconv.FormatInt(job.ID, 10))
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, fmt.Errorf("create job output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(localInputs[0]), filepath.Ext(localInputs[0]))
	outputPath := filepath.Join(jobDir, base+extension)

	args := buildFFmpegArgs(localInputs, profile.Args, outputPath)
	e.logger.Debug("executing ffmpeg",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldProfile, profile.ID),
		logging.String("output", outputPath),
	)
	if err := e.run(ctx, e.binary, args...); err != nil {
		_ = os.Remove(outputPath)
		return nil, services.Wrap(services.ErrExternalTool, "composer", "ffmpeg", fmt.Sprintf("job %d", job.ID), err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "composer", "ffmpeg", "no output produced", err)
	}

	return &mediapackage.Track{
		URI:      mediapackage.FileURI(outputPath),
		MimeType: mime.TypeByExtension(extension),
		HasVideo: true,
		HasAudio: profile.Audio,
	}, nil
}

func jobInputs(job *jobs.Job) ([]string, error) {
	switch job.Type {
	case jobs.TypeMux:
		return []string{job.Args.VideoURI, job.Args.AudioURI}, nil
	case jobs.TypeEncode:
		return []string{job.Args.SourceURI}, nil
	default:
		return nil, fmt.Errorf("job %d: unsupported type %q", job.ID, job.Type)
	}
}

func buildFFmpegArgs(inputs, profileArgs []string, output string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, input := range inputs {
		args = append(args, "-i", input)
	}
	args = append(args, profileArgs...)
	return append(args, output)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
