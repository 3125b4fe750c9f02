package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/deps"
	"trackmux/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckDirectoryAccess("test", ""); result.Passed {
		t.Fatal("expected failure for unset path")
	}
}

func TestCheckStorage(t *testing.T) {
	creds := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(creds, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		storage config.Storage
		pass    bool
	}{
		{"local", config.Storage{Backend: config.StorageLocal}, true},
		{"s3 ok", config.Storage{Backend: config.StorageS3, S3: config.S3{Bucket: "b", Region: "us-east-1", AccessKey: "a", SecretKey: "s"}}, true},
		{"s3 no bucket", config.Storage{Backend: config.StorageS3, S3: config.S3{AccessKey: "a", SecretKey: "s"}}, false},
		{"s3 no creds", config.Storage{Backend: config.StorageS3, S3: config.S3{Bucket: "b"}}, false},
		{"gcs adc", config.Storage{Backend: config.StorageGCS, GCS: config.GCS{Bucket: "b"}}, true},
		{"gcs creds file", config.Storage{Backend: config.StorageGCS, GCS: config.GCS{Bucket: "b", CredentialsFile: creds}}, true},
		{"gcs missing creds file", config.Storage{Backend: config.StorageGCS, GCS: config.GCS{Bucket: "b", CredentialsFile: creds + ".missing"}}, false},
		{"unknown", config.Storage{Backend: "ftp"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckStorage(context.Background(), tt.storage)
			if result.Passed != tt.pass {
				t.Fatalf("Passed = %t, want %t (%s)", result.Passed, tt.pass, result.Detail)
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_LocalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_MissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Composer.FFmpegBinary = filepath.Join(t.TempDir(), "missing-ffmpeg")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "FFmpeg" {
		t.Fatalf("expected only the FFmpeg check to fail, got %+v", failed)
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name   string
		status deps.Status
		want   Result
	}{
		{
			name:   "explicit path",
			status: deps.Status{Name: "FFmpeg", Command: "/opt/ffmpeg/bin/ffmpeg", Available: true},
			want:   Result{Name: "FFmpeg", Passed: true, Detail: "/opt/ffmpeg/bin/ffmpeg"},
		},
		{
			name:   "path lookup",
			status: deps.Status{Name: "FFmpeg", Command: "/usr/bin/ffmpeg", FromPath: true, Available: true},
			want:   Result{Name: "FFmpeg", Passed: true, Detail: "/usr/bin/ffmpeg (from PATH)"},
		},
		{
			name:   "missing",
			status: deps.Status{Name: "FFmpeg", Command: "ffmpeg", FromPath: true, Detail: `binary "ffmpeg" not found on PATH`},
			want:   Result{Name: "FFmpeg", Detail: `binary "ffmpeg" not found on PATH`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromStatus(tt.status); got != tt.want {
				t.Fatalf("FromStatus = %+v, want %+v", got, tt.want)
			}
		})
	}
}
