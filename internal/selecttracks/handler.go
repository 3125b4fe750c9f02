package selecttracks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"trackmux/internal/composer"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
	"trackmux/internal/workflow"
	"trackmux/internal/workspace"
)

// OperationName identifies this operation in logs and errors.
const OperationName = "select-tracks"

// Operation parameters.
const (
	ParamSourceFlavor = "source-flavor"
	ParamTargetFlavor = "target-flavor"
	ParamTargetTags   = "target-tags"
	ParamAudioMuxing  = "audio-muxing"
	ParamForceTarget  = "force-target"

	// DefaultForceTarget is the flavor type receiving audio under force muxing.
	DefaultForceTarget = "presenter"
)

// ConfigurationOptions describes the parameters the operation reads.
func ConfigurationOptions() map[string]string {
	return map[string]string{
		ParamSourceFlavor:   "The flavor of the tracks to use as sources",
		ParamTargetFlavor:   "The flavor to apply to the selected tracks",
		ParamTargetTags:     "The tags to apply to the selected tracks",
		ParamAudioMuxing:    fmt.Sprintf("Either %q, %q or %q to specially mux audio streams", AudioMuxingNone, AudioMuxingDuplicate, AudioMuxingForce),
		ParamForceTarget:    fmt.Sprintf("Target flavor type for the %q option %q (default %s)", ParamAudioMuxing, AudioMuxingForce, DefaultForceTarget),
		"hide_<type>_audio": "Hide the audio stream of tracks with flavor type <type>",
		"hide_<type>_video": "Hide the video stream of tracks with flavor type <type>",
	}
}

// Handler runs the select-tracks operation. It holds no per-invocation state,
// so one Handler may serve concurrent invocations on different media packages.
type Handler struct {
	composer  composer.Service
	workspace workspace.Workspace
	logger    *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc composer.Service, ws workspace.Workspace, logger *slog.Logger) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("select tracks: composer service is required")
	}
	if ws == nil {
		return nil, errors.New("select tracks: workspace is required")
	}
	return &Handler{
		composer:  svc,
		workspace: ws,
		logger:    logging.NewComponentLogger(logger, "select-tracks"),
	}, nil
}

// Start runs the operation against mp. Tracks added before a failure remain
// in the package.
func (h *Handler) Start(ctx context.Context, mp *mediapackage.MediaPackage, params workflow.Params) (workflow.Result, error) {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithMediaPackage(ctx, mp.ID())
	ctx = services.WithOperation(ctx, OperationName)
	logger := logging.WithContext(ctx, h.logger)

	rawSource, ok := params.Get(ParamSourceFlavor)
	if !ok {
		return workflow.Result{}, services.Wrap(services.ErrConfiguration, OperationName, "start", "source flavor must be specified", nil)
	}
	sourceFlavor, err := mediapackage.ParseFlavor(rawSource)
	if err != nil {
		return workflow.Result{}, services.Wrap(services.ErrConfiguration, OperationName, "start", ParamSourceFlavor, err)
	}

	handles := mp.TracksByFlavor(sourceFlavor)
	if len(handles) == 0 {
		logger.Info("no audio/video tracks found to prepare", logging.String(logging.FieldFlavor, sourceFlavor.String()))
		return workflow.Result{Action: workflow.ActionContinue}, nil
	}

	rawTarget, ok := params.Get(ParamTargetFlavor)
	if !ok {
		return workflow.Result{}, services.Wrap(services.ErrConfiguration, OperationName, "start", "target flavor not specified", nil)
	}
	targetFlavor, err := mediapackage.ParseFlavor(rawTarget)
	if err != nil {
		return workflow.Result{}, services.Wrap(services.ErrConfiguration, OperationName, "start", ParamTargetFlavor, err)
	}

	plan := enginePlan{
		muxing:      AudioMuxingNone,
		forceTarget: params.GetOr(ParamForceTarget, DefaultForceTarget),
	}
	if raw, ok := params.Get(ParamAudioMuxing); ok {
		if plan.muxing, err = ParseAudioMuxing(raw); err != nil {
			return workflow.Result{}, err
		}
	}

	var diff *workflow.TagDiff
	if raw, ok := params.Get(ParamTargetTags); ok {
		parsed := workflow.ParseTagDiff(raw)
		diff = &parsed
	}

	logger.Info("selecting tracks",
		logging.String(logging.FieldFlavor, sourceFlavor.String()),
		logging.Int("track_count", len(handles)),
		logging.String("audio_muxing", string(plan.muxing)),
	)

	set := newWorkingSet(mp, handles, params)
	jobs := &dispatcher{mp: mp, composer: h.composer, workspace: h.workspace, logger: logger}
	eng := newEngine(set, jobs, logger)
	survivors, err := eng.run(ctx, plan)
	if err != nil {
		return workflow.Result{}, err
	}

	rewrite(mp, survivors, targetFlavor.Subtype, diff)
	slices.Sort(survivors)

	logger.Info("tracks selected",
		logging.Int("survivor_count", len(survivors)),
		logging.Duration("queue_time", eng.queueTime),
	)
	return workflow.Result{Action: workflow.ActionContinue, QueueTime: eng.queueTime, Tracks: survivors}, nil
}
