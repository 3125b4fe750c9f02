package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"trackmux/internal/config"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

type objectWriterFunc func(ctx context.Context, bucket, object string) io.WriteCloser

// GCS uploads tracks into a Google Cloud Storage bucket.
type GCS struct {
	bucket    string
	prefix    string
	client    *storage.Client
	newWriter objectWriterFunc
	logger    *slog.Logger
}

// NewGCS constructs a GCS workspace. Credentials come from the configured
// key file, or application default credentials when none is set.
func NewGCS(ctx context.Context, cfg config.GCS, logger *slog.Logger) (*GCS, error) {
	var opts []option.ClientOption
	if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "workspace", "gcs", "read credentials file", err)
		}
		opts = append(opts, option.WithCredentialsJSON(data))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "workspace", "gcs", "create client", err)
	}
	w := &GCS{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		client: client,
		logger: logging.NewComponentLogger(logger, "workspace"),
	}
	w.newWriter = func(ctx context.Context, bucket, object string) io.WriteCloser {
		return client.Bucket(bucket).Object(object).NewWriter(ctx)
	}
	return w, nil
}

// MoveTo implements Workspace.
func (w *GCS) MoveTo(ctx context.Context, uri, mediaPackageID, elementID, fileName string) (string, error) {
	key, err := ObjectKey(w.prefix, mediaPackageID, elementID, fileName)
	if err != nil {
		return "", err
	}
	source, err := mediapackage.LocalPath(uri)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "workspace", "move", "resolve source", err)
	}
	file, err := os.Open(source)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "workspace", "move", "open source", err)
	}
	defer file.Close()

	dest := fmt.Sprintf("gs://%s/%s", w.bucket, key)
	writer := w.newWriter(ctx, w.bucket, key)
	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return "", services.Wrap(services.ErrStorage, "workspace", "upload", dest, err)
	}
	if err := writer.Close(); err != nil {
		return "", services.Wrap(services.ErrStorage, "workspace", "upload", dest, err)
	}
	if err := os.Remove(source); err != nil {
		w.logger.Warn("uploaded source not removed",
			logging.String("source", source),
			logging.Error(err),
			logging.String(logging.FieldEventType, "workspace_cleanup_failed"),
		)
	}
	w.logger.Debug("track uploaded", logging.String("destination", dest))
	return dest, nil
}

// Close releases the storage client.
func (w *GCS) Close() error {
	if w == nil || w.client == nil {
		return nil
	}
	return w.client.Close()
}
