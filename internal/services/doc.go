// Package services defines shared utilities consumed by the select-tracks
// operation, the composer, and the workspace backends.
//
// Key responsibilities:
//   - Context helpers that stamp media package IDs, operation names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     configuration mistakes apart from failed jobs and I/O problems.
//
// Use these helpers when wiring new operation logic so error handling and
// observability stay uniform.
package services
