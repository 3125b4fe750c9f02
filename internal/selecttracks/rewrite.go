package selecttracks

import (
	"trackmux/internal/mediapackage"
	"trackmux/internal/workflow"
)

// rewrite gives every survivor the target subtype and applies the tag diff
// when one is configured.
func rewrite(mp *mediapackage.MediaPackage, survivors []mediapackage.Handle, subtype string, diff *workflow.TagDiff) {
	for _, h := range survivors {
		track := mp.Track(h)
		track.Flavor = track.Flavor.WithSubtype(subtype)
		if diff != nil {
			diff.Apply(track)
		}
	}
}
