package selecttracks

import "trackmux/internal/workflow"

// SubStream names a stream kind inside a track container.
type SubStream int

const (
	Audio SubStream = iota
	Video
)

func (s SubStream) String() string {
	if s == Audio {
		return "audio"
	}
	return "video"
}

// HideKey returns the parameter that hides sub-stream s of tracks whose flavor
// type is flavorType, e.g. hide_presenter_audio.
func HideKey(flavorType string, s SubStream) string {
	return "hide_" + flavorType + "_" + s.String()
}

// resolveHidden reads the hide policy for one flavor type and sub-stream.
// Only a case-insensitive "true" hides; anything else means the sub-stream is
// shown.
func resolveHidden(params workflow.Params, flavorType string, s SubStream) bool {
	return params.Bool(HideKey(flavorType, s))
}
