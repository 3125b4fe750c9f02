// Package mediapackage models the media package a workflow operation works on:
// tracks, their flavors and tags, and the container that owns them.
//
// Tracks live in an arena inside MediaPackage and are addressed by Handle.
// Handles stay valid for the lifetime of the package, so "is this the same
// track" is a handle comparison rather than a deep-equality check. Tracks are
// never removed; derivatives produced by encode jobs are appended next to the
// sources they supersede.
//
// The package also owns the XML manifest format used by the CLI and the track
// descriptor format carried in composer job payloads.
package mediapackage
