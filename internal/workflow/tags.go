package workflow

import (
	"strings"

	"trackmux/internal/mediapackage"
)

const removeAllTags = "*"

// TagDiff describes a change to an element's tag set.
type TagDiff struct {
	Override  []string
	Add       []string
	Remove    []string
	RemoveAll bool
}

// ParseTagDiff parses the target-tags syntax: tokens separated by commas or
// whitespace, "+tag" adds, "-tag" removes, "-*" removes every existing tag and
// bare tags replace the tag set.
func ParseTagDiff(spec string) TagDiff {
	var diff TagDiff
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	for _, field := range fields {
		switch {
		case strings.HasPrefix(field, "+"):
			diff.Add = appendTag(diff.Add, field[1:])
		case strings.HasPrefix(field, "-"):
			tag := strings.TrimSpace(field[1:])
			if tag == removeAllTags {
				diff.RemoveAll = true
				continue
			}
			diff.Remove = appendTag(diff.Remove, tag)
		default:
			diff.Override = appendTag(diff.Override, field)
		}
	}
	return diff
}

// Empty reports whether applying the diff changes nothing.
func (d TagDiff) Empty() bool {
	return len(d.Override) == 0 && len(d.Add) == 0 && len(d.Remove) == 0 && !d.RemoveAll
}

// Apply mutates the track's tags.
func (d TagDiff) Apply(track *mediapackage.Track) {
	if len(d.Override) > 0 || d.RemoveAll {
		track.ClearTags()
	}
	for _, tag := range d.Override {
		track.AddTag(tag)
	}
	for _, tag := range d.Remove {
		track.RemoveTag(tag)
	}
	for _, tag := range d.Add {
		track.AddTag(tag)
	}
}

func appendTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags
	}
	for _, existing := range tags {
		if existing == tag {
			return tags
		}
	}
	return append(tags, tag)
}
