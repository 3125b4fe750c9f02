package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"trackmux/internal/mediapackage"
)

// WriteFile writes size bytes of filler to path, creating parent directories.
// A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MediaTrack writes a placeholder <dir>/<id>.mp4 and returns a track whose
// URI points at it.
func MediaTrack(t testing.TB, dir, id, flavor string, audio, video bool) *mediapackage.Track {
	t.Helper()

	path := filepath.Join(dir, id+".mp4")
	WriteFile(t, path, int64(len(id)))
	return &mediapackage.Track{
		ID:       id,
		Flavor:   mediapackage.MustParseFlavor(flavor),
		URI:      mediapackage.FileURI(path),
		MimeType: "video/mp4",
		HasAudio: audio,
		HasVideo: video,
	}
}
