package mediapackage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Handle addresses a track inside one MediaPackage.
type Handle int

// NoHandle is returned when no track applies.
const NoHandle Handle = -1

// Valid reports whether the handle refers to a track slot.
func (h Handle) Valid() bool {
	return h >= 0
}

// MediaPackage is the mutable container of tracks for one media item.
//
// A MediaPackage is owned by a single operation at a time and is not safe for
// concurrent use.
type MediaPackage struct {
	id     string
	title  string
	tracks []*Track
	ids    map[string]Handle
}

// New creates an empty media package. An empty id receives a generated one.
func New(id string) *MediaPackage {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	return &MediaPackage{id: id, ids: make(map[string]Handle)}
}

// ID returns the media package identifier.
func (mp *MediaPackage) ID() string {
	return mp.id
}

// Title returns the descriptive title, if any.
func (mp *MediaPackage) Title() string {
	return mp.title
}

// SetTitle updates the descriptive title.
func (mp *MediaPackage) SetTitle(title string) {
	mp.title = strings.TrimSpace(title)
}

// Add stores a track and returns its handle. Tracks without an identifier get
// a fresh one; duplicate identifiers are rejected.
func (mp *MediaPackage) Add(track *Track) (Handle, error) {
	if track == nil {
		return NoHandle, fmt.Errorf("add track to %s: track is nil", mp.id)
	}
	track.ID = strings.TrimSpace(track.ID)
	if track.ID == "" {
		track.ID = uuid.NewString()
	}
	if _, exists := mp.ids[track.ID]; exists {
		return NoHandle, fmt.Errorf("add track to %s: duplicate element id %q", mp.id, track.ID)
	}
	handle := Handle(len(mp.tracks))
	mp.tracks = append(mp.tracks, track)
	mp.ids[track.ID] = handle
	return handle, nil
}

// Track resolves a handle. It returns nil for handles outside the package.
func (mp *MediaPackage) Track(h Handle) *Track {
	if h < 0 || int(h) >= len(mp.tracks) {
		return nil
	}
	return mp.tracks[h]
}

// HandleByID finds the handle of the track with the given element identifier.
func (mp *MediaPackage) HandleByID(id string) (Handle, bool) {
	h, ok := mp.ids[strings.TrimSpace(id)]
	return h, ok
}

// Handles lists every track handle in insertion order.
func (mp *MediaPackage) Handles() []Handle {
	handles := make([]Handle, len(mp.tracks))
	for i := range mp.tracks {
		handles[i] = Handle(i)
	}
	return handles
}

// Len returns the number of tracks in the package.
func (mp *MediaPackage) Len() int {
	return len(mp.tracks)
}

// TracksByFlavor returns the handles of tracks matching flavor, in insertion order.
func (mp *MediaPackage) TracksByFlavor(flavor Flavor) []Handle {
	var handles []Handle
	for i, track := range mp.tracks {
		if track.Flavor.Matches(flavor) {
			handles = append(handles, Handle(i))
		}
	}
	return handles
}
