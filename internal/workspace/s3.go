package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"trackmux/internal/config"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

type s3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3 uploads tracks into an S3 bucket.
type S3 struct {
	bucket   string
	prefix   string
	uploader s3Uploader
	logger   *slog.Logger
}

// NewS3 constructs an S3 workspace using static credentials.
func NewS3(cfg config.S3, logger *slog.Logger) *S3 {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	client := s3.New(opts)
	return &S3{
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		uploader: manager.NewUploader(client),
		logger:   logging.NewComponentLogger(logger, "workspace"),
	}
}

// MoveTo implements Workspace.
func (w *S3) MoveTo(ctx context.Context, uri, mediaPackageID, elementID, fileName string) (string, error) {
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

	_, err = w.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "workspace", "upload", fmt.Sprintf("s3://%s/%s", w.bucket, key), err)
	}
	if err := os.Remove(source); err != nil {
		w.logger.Warn("uploaded source not removed",
			logging.String("source", source),
			logging.Error(err),
			logging.String(logging.FieldEventType, "workspace_cleanup_failed"),
		)
	}
	dest := fmt.Sprintf("s3://%s/%s", w.bucket, key)
	w.logger.Debug("track uploaded", logging.String("destination", dest))
	return dest, nil
}
