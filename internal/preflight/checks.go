package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"trackmux/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStorage verifies that the selected storage backend is fully configured.
// It does not contact the remote service.
func CheckStorage(_ context.Context, storage config.Storage) Result {
	const name = "Storage"

	switch storage.Backend {
	case config.StorageLocal:
		return Result{Name: name, Passed: true, Detail: "local workspace"}
	case config.StorageS3:
		s3 := storage.S3
		if strings.TrimSpace(s3.Bucket) == "" {
			return Result{Name: name, Detail: "s3: missing bucket"}
		}
		if s3.AccessKey == "" || s3.SecretKey == "" {
			return Result{Name: name, Detail: "s3: missing credentials"}
		}
		detail := fmt.Sprintf("s3://%s (%s)", s3.Bucket, s3.Region)
		if s3.Endpoint != "" {
			detail = fmt.Sprintf("s3://%s via %s", s3.Bucket, s3.Endpoint)
		}
		return Result{Name: name, Passed: true, Detail: detail}
	case config.StorageGCS:
		gcs := storage.GCS
		if strings.TrimSpace(gcs.Bucket) == "" {
			return Result{Name: name, Detail: "gcs: missing bucket"}
		}
		if gcs.CredentialsFile != "" {
			if _, err := os.Stat(gcs.CredentialsFile); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("gcs: credentials file: %v", err)}
			}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("gs://%s", gcs.Bucket)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unsupported backend %q", storage.Backend)}
	}
}
