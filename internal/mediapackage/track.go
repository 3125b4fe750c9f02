package mediapackage

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Track describes one media stream container in a media package.
type Track struct {
	ID       string
	Flavor   Flavor
	URI      string
	MimeType string
	Duration time.Duration
	HasAudio bool
	HasVideo bool
	Tags     []string
}

// Clone returns a deep copy of the track, identifier included.
func (t *Track) Clone() *Track {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Tags = slices.Clone(t.Tags)
	return &clone
}

// String identifies the track in log lines and error messages.
func (t *Track) String() string {
	if t == nil {
		return "<nil track>"
	}
	id := t.ID
	if id == "" {
		id = "(unassigned)"
	}
	return fmt.Sprintf("track %s [%s] %s", id, t.Flavor, t.URI)
}

// HasTag reports whether the track carries tag.
func (t *Track) HasTag(tag string) bool {
	return slices.Contains(t.Tags, strings.TrimSpace(tag))
}

// AddTag adds tag when it is not already present.
func (t *Track) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
}

// RemoveTag drops tag if present.
func (t *Track) RemoveTag(tag string) {
	tag = strings.TrimSpace(tag)
	t.Tags = slices.DeleteFunc(t.Tags, func(existing string) bool { return existing == tag })
}

// ClearTags removes every tag.
func (t *Track) ClearTags() {
	t.Tags = nil
}
