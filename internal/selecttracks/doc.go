// Package selecttracks implements the select-tracks workflow operation.
//
// Given the tracks of a media package that match a source flavor, and a
// per-flavor-type policy of which sub-streams (audio, video) are hidden, the
// operation decides how to combine, clone, or re-encode those tracks into one
// output set. Mux and video-only jobs go to a composer.Service one at a time;
// each produced track is added to the package, relocated into the workspace,
// and given back the flavor of the track it replaces. Survivors then receive
// the target flavor subtype and the target-tags diff.
//
// Two branches exist. When every input track shows its video, all of them
// survive and the audio-muxing mode (none, duplicate, force) decides where
// audio ends up. Otherwise the single visible video track survives, muxed
// with the visible audio track when that is a different track.
//
// Tracks are addressed by mediapackage.Handle. The engine tracks each input
// in a slot whose state moves from pending to composed, cloned, or dropped;
// ingested tracks are never rewritten in place.
package selecttracks
