package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"trackmux/internal/config"
	"trackmux/internal/services"
)

// Workspace relocates files into managed storage.
type Workspace interface {
	MoveTo(ctx context.Context, uri, mediaPackageID, elementID, fileName string) (string, error)
}

// New builds the workspace selected by cfg.Storage.Backend. The returned
// closer releases backend clients and is never nil.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Workspace, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal, "":
		return NewLocal(cfg.Paths.WorkspaceDir, logger), nopCloser{}, nil
	case config.StorageS3:
		return NewS3(cfg.Storage.S3, logger), nopCloser{}, nil
	case config.StorageGCS:
		ws, err := NewGCS(ctx, cfg.Storage.GCS, logger)
		if err != nil {
			return nil, nil, err
		}
		return ws, ws, nil
	default:
		return nil, nil, services.Wrap(services.ErrConfiguration, "workspace", "new", fmt.Sprintf("unsupported storage backend %q", cfg.Storage.Backend), nil)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ObjectKey joins the destination components, rejecting empty or
// path-escaping parts.
func ObjectKey(prefix, mediaPackageID, elementID, fileName string) (string, error) {
	parts := []struct{ name, value string }{
		{"media package id", mediaPackageID},
		{"element id", elementID},
		{"file name", fileName},
	}
	for _, part := range parts {
		value := strings.TrimSpace(part.value)
		if value == "" || value == "." || value == ".." || strings.ContainsAny(value, "/\\") {
			return "", services.Wrap(services.ErrValidation, "workspace", "move", fmt.Sprintf("invalid %s %q", part.name, part.value), nil)
		}
	}
	key := path.Join(mediaPackageID, elementID, fileName)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = path.Join(prefix, key)
	}
	return key, nil
}
