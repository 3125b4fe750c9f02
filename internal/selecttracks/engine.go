package selecttracks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

type slotState int

const (
	slotPending slotState = iota
	slotComposed
	slotCloned
	slotDropped
)

func (s slotState) String() string {
	switch s {
	case slotComposed:
		return "composed"
	case slotCloned:
		return "cloned"
	case slotDropped:
		return "dropped"
	default:
		return "pending"
	}
}

// slot follows one input track through the engine. hideAudio and hideVideo
// are fixed at creation; only current and state move.
type slot struct {
	source    mediapackage.Handle
	current   mediapackage.Handle
	state     slotState
	hideAudio bool
	hideVideo bool
}

func (s *slot) hides(sub SubStream) bool {
	if sub == Audio {
		return s.hideAudio
	}
	return s.hideVideo
}

func (s *slot) compose(h mediapackage.Handle) {
	s.current = h
	s.state = slotComposed
}

// jobRunner produces derivative tracks. Implementations add the produced
// track to the package and return its handle with the job's queue time.
type jobRunner interface {
	mux(ctx context.Context, video, audio mediapackage.Handle) (mediapackage.Handle, time.Duration, error)
	hideAudio(ctx context.Context, h mediapackage.Handle) (mediapackage.Handle, time.Duration, error)
}

type enginePlan struct {
	muxing      AudioMuxing
	forceTarget string
}

type engine struct {
	set       *workingSet
	jobs      jobRunner
	logger    *slog.Logger
	queueTime time.Duration
}

func newEngine(set *workingSet, jobs jobRunner, logger *slog.Logger) *engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &engine{set: set, jobs: jobs, logger: logger}
}

// run executes the branch selected by the video visibility of the inputs and
// returns the surviving handles.
func (e *engine) run(ctx context.Context, plan enginePlan) ([]mediapackage.Handle, error) {
	var err error
	if e.set.allNonHidden(Video) {
		err = e.allVideoVisible(ctx, plan)
	} else {
		err = e.singleVideoVisible(ctx)
	}
	if err != nil {
		return nil, err
	}
	return e.set.survivors(), nil
}

func (e *engine) allVideoVisible(ctx context.Context, plan enginePlan) error {
	single := e.set.findSingleAudioTrack()
	switch {
	case plan.muxing == AudioMuxingDuplicate && single != nil:
		e.decide("audio_muxing", "duplicate", "single visible audio track copied to every other track")
		for _, s := range e.set.slots {
			if s == single {
				continue
			}
			if err := e.mux(ctx, s, s, single); err != nil {
				return err
			}
		}
	case plan.muxing == AudioMuxingForce && single != nil:
		target := e.set.findTrackByFlavorType(plan.forceTarget)
		if target == nil {
			return services.Wrap(
				services.ErrConfiguration,
				OperationName,
				"force",
				fmt.Sprintf("%q set to %q, but target flavor %q not found", ParamAudioMuxing, AudioMuxingForce, plan.forceTarget),
				nil,
			)
		}
		if target == single {
			e.decide("audio_muxing", "force", "audio already on force target")
			break
		}
		e.decide("audio_muxing", "force", "audio moved to force target")
		if err := e.mux(ctx, target, target, single); err != nil {
			return err
		}
		if err := e.hideAudio(ctx, single); err != nil {
			return err
		}
	default:
		e.decide("audio_muxing", "none", fmt.Sprintf("mode %s, single audio present: %t", plan.muxing, single != nil))
		for _, s := range e.set.slots {
			if e.set.has(s, Audio) && s.hideAudio {
				if err := e.hideAudio(ctx, s); err != nil {
					return err
				}
				continue
			}
			if err := e.clone(s); err != nil {
				return err
			}
		}
	}
	return e.clonePending()
}

func (e *engine) singleVideoVisible(ctx context.Context) error {
	video := e.set.findNonHidden(Video)
	if video == nil {
		return services.Wrap(services.ErrValidation, OperationName, "select", "no track with visible video", nil)
	}
	audio := e.set.findNonHidden(Audio)

	switch {
	case e.set.has(video, Audio) && video.hideAudio && (audio == nil || audio == video):
		e.decide("single_video", "hide_audio", "visible video hides its own audio")
		if err := e.hideAudio(ctx, video); err != nil {
			return err
		}
	case audio == nil || audio == video:
		e.decide("single_video", "clone", "no separate audio track")
		if err := e.clone(video); err != nil {
			return err
		}
	default:
		e.decide("single_video", "mux", "audio taken from another track")
		if err := e.mux(ctx, video, video, audio); err != nil {
			return err
		}
	}

	for _, s := range e.set.slots {
		if s != video {
			s.state = slotDropped
		}
	}
	return nil
}

// mux composes dest from the video of videoSlot and the audio of audioSlot.
func (e *engine) mux(ctx context.Context, dest, videoSlot, audioSlot *slot) error {
	h, wait, err := e.jobs.mux(ctx, videoSlot.current, audioSlot.current)
	if err != nil {
		return err
	}
	e.queueTime += wait
	dest.compose(h)
	return nil
}

func (e *engine) hideAudio(ctx context.Context, s *slot) error {
	h, wait, err := e.jobs.hideAudio(ctx, s.current)
	if err != nil {
		return err
	}
	e.queueTime += wait
	s.compose(h)
	return nil
}

// clone adds a copy of the slot's track under a fresh identifier.
func (e *engine) clone(s *slot) error {
	copied := e.set.track(s).Clone()
	copied.ID = ""
	h, err := e.set.mp.Add(copied)
	if err != nil {
		return fmt.Errorf("clone %s: %w", e.set.track(s), err)
	}
	s.current = h
	s.state = slotCloned
	return nil
}

func (e *engine) clonePending() error {
	for _, s := range e.set.slots {
		if s.state != slotPending {
			continue
		}
		if err := e.clone(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) decide(decisionType, result, reason string) {
	e.logger.Debug("track selection decision", logging.Args(logging.DecisionAttrs(decisionType, result, reason)...)...)
}
