package selecttracks

import (
	"fmt"

	"trackmux/internal/services"
)

// AudioMuxing selects how audio is distributed when every track shows video.
type AudioMuxing string

const (
	// AudioMuxingNone keeps each track's own audio, stripping hidden audio.
	AudioMuxingNone AudioMuxing = "none"
	// AudioMuxingDuplicate copies the single visible audio stream onto every other track.
	AudioMuxingDuplicate AudioMuxing = "duplicate"
	// AudioMuxingForce moves the single visible audio stream onto the force-target track.
	AudioMuxingForce AudioMuxing = "force"
)

// ParseAudioMuxing validates an audio-muxing parameter value. Matching is exact.
func ParseAudioMuxing(value string) (AudioMuxing, error) {
	switch mode := AudioMuxing(value); mode {
	case AudioMuxingNone, AudioMuxingDuplicate, AudioMuxingForce:
		return mode, nil
	default:
		return "", services.Wrap(
			services.ErrConfiguration,
			OperationName,
			ParamAudioMuxing,
			fmt.Sprintf("invalid audio muxing parameter %q", value),
			nil,
		)
	}
}
