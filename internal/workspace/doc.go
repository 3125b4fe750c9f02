// Package workspace relocates produced tracks into long-term storage.
//
// A Workspace moves a file identified by URI to the key
// <media package>/<element>/<file name> and returns the new URI. The local
// backend renames into a root directory; the s3 and gcs backends upload the
// file and remove the local source.
package workspace
