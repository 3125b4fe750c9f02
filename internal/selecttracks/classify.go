package selecttracks

import (
	"trackmux/internal/mediapackage"
	"trackmux/internal/workflow"
)

// workingSet is the augmented view of the input tracks for one invocation.
type workingSet struct {
	mp    *mediapackage.MediaPackage
	slots []*slot
}

func newWorkingSet(mp *mediapackage.MediaPackage, handles []mediapackage.Handle, params workflow.Params) *workingSet {
	set := &workingSet{mp: mp, slots: make([]*slot, 0, len(handles))}
	for _, h := range handles {
		flavorType := mp.Track(h).Flavor.Type
		set.slots = append(set.slots, &slot{
			source:    h,
			current:   h,
			hideAudio: resolveHidden(params, flavorType, Audio),
			hideVideo: resolveHidden(params, flavorType, Video),
		})
	}
	return set
}

func (ws *workingSet) track(s *slot) *mediapackage.Track {
	return ws.mp.Track(s.current)
}

func (ws *workingSet) has(s *slot, sub SubStream) bool {
	t := ws.track(s)
	if sub == Audio {
		return t.HasAudio
	}
	return t.HasVideo
}

func (ws *workingSet) visible(s *slot, sub SubStream) bool {
	return ws.has(s, sub) && !s.hides(sub)
}

// allNonHidden reports whether every slot has and shows sub.
func (ws *workingSet) allNonHidden(sub SubStream) bool {
	for _, s := range ws.slots {
		if !ws.visible(s, sub) {
			return false
		}
	}
	return true
}

// findNonHidden returns the first slot that has and shows sub.
func (ws *workingSet) findNonHidden(sub SubStream) *slot {
	for _, s := range ws.slots {
		if ws.visible(s, sub) {
			return s
		}
	}
	return nil
}

// findSingleAudioTrack returns the only slot with visible audio, or nil when
// none or several qualify.
func (ws *workingSet) findSingleAudioTrack() *slot {
	var found *slot
	for _, s := range ws.slots {
		if !ws.visible(s, Audio) {
			continue
		}
		if found != nil {
			return nil
		}
		found = s
	}
	return found
}

// findTrackByFlavorType returns the first slot whose track has flavorType.
func (ws *workingSet) findTrackByFlavorType(flavorType string) *slot {
	for _, s := range ws.slots {
		if ws.track(s).Flavor.Type == flavorType {
			return s
		}
	}
	return nil
}

// survivors lists the current handles of every slot not dropped, in input order.
func (ws *workingSet) survivors() []mediapackage.Handle {
	out := make([]mediapackage.Handle, 0, len(ws.slots))
	for _, s := range ws.slots {
		if s.state != slotDropped {
			out = append(out, s.current)
		}
	}
	return out
}
