package selecttracks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trackmux/internal/mediapackage"
	"trackmux/internal/workflow"
)

// recordingJobs produces tracks in-process and records each call.
type recordingJobs struct {
	mp    *mediapackage.MediaPackage
	calls []string
	wait  time.Duration
}

func (r *recordingJobs) mux(_ context.Context, video, audio mediapackage.Handle) (mediapackage.Handle, time.Duration, error) {
	v, a := r.mp.Track(video), r.mp.Track(audio)
	r.calls = append(r.calls, fmt.Sprintf("mux(%s,%s)", v.ID, a.ID))
	return r.add(&mediapackage.Track{Flavor: v.Flavor, HasAudio: true, HasVideo: true})
}

func (r *recordingJobs) hideAudio(_ context.Context, h mediapackage.Handle) (mediapackage.Handle, time.Duration, error) {
	t := r.mp.Track(h)
	r.calls = append(r.calls, fmt.Sprintf("hide(%s)", t.ID))
	return r.add(&mediapackage.Track{Flavor: t.Flavor, HasVideo: true})
}

func (r *recordingJobs) add(track *mediapackage.Track) (mediapackage.Handle, time.Duration, error) {
	h, err := r.mp.Add(track)
	return h, r.wait, err
}

func runEngine(t *testing.T, plan enginePlan, params workflow.Params, tracks ...*mediapackage.Track) (*engine, *recordingJobs, []mediapackage.Handle) {
	t.Helper()
	set := buildSet(t, params, tracks...)
	jobs := &recordingJobs{mp: set.mp, wait: time.Second}
	eng := newEngine(set, jobs, nil)
	survivors, err := eng.run(context.Background(), plan)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return eng, jobs, survivors
}

func TestEngineSlotStates(t *testing.T) {
	eng, jobs, survivors := runEngine(t,
		enginePlan{muxing: AudioMuxingDuplicate},
		nil,
		track("p", "presenter", true, true),
		track("s", "slides", false, true),
	)
	if fmt.Sprint(jobs.calls) != "[mux(s,p)]" {
		t.Fatalf("unexpected calls %v", jobs.calls)
	}
	states := []slotState{eng.set.slots[0].state, eng.set.slots[1].state}
	if states[0] != slotCloned || states[1] != slotComposed {
		t.Fatalf("unexpected states %v", states)
	}
	if len(survivors) != 2 {
		t.Fatalf("expected two survivors, got %d", len(survivors))
	}
	for _, h := range survivors {
		if h == eng.set.slots[0].source || h == eng.set.slots[1].source {
			t.Fatal("survivor still points at an input track")
		}
	}
	if eng.queueTime != time.Second {
		t.Fatalf("queue time = %s", eng.queueTime)
	}
}

func TestEngineNoneModeMixesHideAndClone(t *testing.T) {
	_, jobs, survivors := runEngine(t,
		enginePlan{muxing: AudioMuxingNone},
		workflow.Params{"hide_slides_audio": "true"},
		track("p", "presenter", true, true),
		track("s", "slides", true, true),
		track("c", "camera", false, true),
	)
	if fmt.Sprint(jobs.calls) != "[hide(s)]" {
		t.Fatalf("unexpected calls %v", jobs.calls)
	}
	if len(survivors) != 3 {
		t.Fatalf("expected three survivors, got %d", len(survivors))
	}
}

func TestEngineSingleVideoHidesOwnAudio(t *testing.T) {
	eng, jobs, survivors := runEngine(t,
		enginePlan{muxing: AudioMuxingNone},
		workflow.Params{"hide_slides_video": "true", "hide_presenter_audio": "true"},
		track("p", "presenter", true, true),
		track("s", "slides", false, true),
	)
	if fmt.Sprint(jobs.calls) != "[hide(p)]" {
		t.Fatalf("unexpected calls %v", jobs.calls)
	}
	if len(survivors) != 1 || eng.set.slots[1].state != slotDropped {
		t.Fatalf("expected the slides slot dropped, survivors %v", survivors)
	}
}
