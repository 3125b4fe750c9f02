package selecttracks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trackmux/internal/composer"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
	"trackmux/internal/workspace"
)

// dispatcher submits composer jobs one at a time and folds their results
// back into the media package.
type dispatcher struct {
	mp        *mediapackage.MediaPackage
	composer  composer.Service
	workspace workspace.Workspace
	logger    *slog.Logger
}

func (d *dispatcher) mux(ctx context.Context, video, audio mediapackage.Handle) (mediapackage.Handle, time.Duration, error) {
	videoTrack := d.mp.Track(video)
	audioTrack := d.mp.Track(audio)
	profile, err := d.profile(ctx, composer.ProfileMuxAV)
	if err != nil {
		return mediapackage.NoHandle, 0, err
	}
	job, err := d.composer.Mux(ctx, videoTrack, audioTrack, profile.ID)
	if err != nil {
		return mediapackage.NoHandle, 0, fmt.Errorf("submit mux of %s and %s: %w", videoTrack, audioTrack, err)
	}
	failure := fmt.Sprintf("muxing video track %s and audio track %s failed", videoTrack, audioTrack)
	return d.complete(ctx, videoTrack, job, "mux", failure)
}

func (d *dispatcher) hideAudio(ctx context.Context, h mediapackage.Handle) (mediapackage.Handle, time.Duration, error) {
	track := d.mp.Track(h)
	profile, err := d.profile(ctx, composer.ProfileVideoOnly)
	if err != nil {
		return mediapackage.NoHandle, 0, err
	}
	d.logger.Info("encoding video only track to work version", logging.String(logging.FieldTrack, track.ID))
	job, err := d.composer.Encode(ctx, track, profile.ID)
	if err != nil {
		return mediapackage.NoHandle, 0, fmt.Errorf("submit video-only encode of %s: %w", track, err)
	}
	failure := fmt.Sprintf("rewriting container for video track %s failed", track)
	return d.complete(ctx, track, job, "hide_audio", failure)
}

func (d *dispatcher) profile(ctx context.Context, id string) (composer.Profile, error) {
	profile, err := d.composer.Profile(ctx, id)
	if err != nil {
		return composer.Profile{}, services.Wrap(
			services.ErrConfiguration,
			OperationName,
			"profile",
			fmt.Sprintf("couldn't find encoding profile %q", id),
			err,
		)
	}
	return profile, nil
}

// complete waits for job, adds the produced track to the package, relocates
// it into the workspace and restores the flavor of original onto it.
func (d *dispatcher) complete(ctx context.Context, original *mediapackage.Track, job composer.Job, operation, failure string) (mediapackage.Handle, time.Duration, error) {
	result, err := d.composer.Wait(ctx, job)
	if err != nil {
		return mediapackage.NoHandle, 0, fmt.Errorf("wait for job %d: %w", job.ID, err)
	}
	if !result.Succeeded {
		var cause error
		if result.Error != "" {
			cause = errors.New(result.Error)
		}
		return mediapackage.NoHandle, 0, services.Wrap(services.ErrJobFailed, OperationName, operation, failure, cause)
	}

	produced, err := mediapackage.ParseTrack(result.Payload)
	if err != nil {
		return mediapackage.NoHandle, 0, fmt.Errorf("job %d payload: %w", job.ID, err)
	}
	h, err := d.mp.Add(produced)
	if err != nil {
		return mediapackage.NoHandle, 0, err
	}

	fileName := producedFileName(original, produced)
	uri, err := d.workspace.MoveTo(ctx, produced.URI, d.mp.ID(), produced.ID, fileName)
	if err != nil {
		return mediapackage.NoHandle, 0, fmt.Errorf("relocate %s: %w", produced, err)
	}
	produced.URI = uri
	produced.Flavor = original.Flavor

	d.logger.Debug("job result added",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldTrack, produced.ID),
		logging.String(logging.FieldFlavor, produced.Flavor.String()),
		logging.Duration("queue_time", result.QueueTime),
	)
	return h, result.QueueTime, nil
}

// producedFileName names a derivative after its source: the base name of the
// original track plus the extension of the produced track.
func producedFileName(original, produced *mediapackage.Track) string {
	base := mediapackage.BaseName(original.URI)
	if base == "" {
		base = produced.ID
	}
	return base + mediapackage.Extension(produced.URI)
}
