package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckFFmpegExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	if err := os.WriteFile(ffmpegPath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	status := CheckFFmpeg(ffmpegPath)
	if !status.Available {
		t.Fatalf("expected configured ffmpeg to be available, got detail %q", status.Detail)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
	if status.FromPath {
		t.Fatal("explicit path must not be reported as a PATH lookup")
	}
}

func TestCheckFFmpegNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	ffmpegPath := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(ffmpegPath, []byte("data"), 0o644); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	status := CheckFFmpeg(ffmpegPath)
	if status.Available {
		t.Fatal("expected non-executable file to be rejected")
	}
}

func TestCheckFFmpegPathLookup(t *testing.T) {
	binDir := t.TempDir()
	ffmpegPath := filepath.Join(binDir, executableName("ffmpeg"))
	if err := os.WriteFile(ffmpegPath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := CheckFFmpeg("")
	if !status.Available || !status.FromPath {
		t.Fatalf("expected ffmpeg resolved from PATH, got %+v", status)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
}

func TestCheckFFmpegNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckFFmpeg("ffmpeg")
	if status.Available {
		t.Fatal("expected ffmpeg resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when ffmpeg is unavailable")
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
