package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/services"
)

// Local keeps tracks under a root directory on the local filesystem.
type Local struct {
	root   string
	logger *slog.Logger
}

// NewLocal constructs a local workspace rooted at root.
func NewLocal(root string, logger *slog.Logger) *Local {
	return &Local{root: root, logger: logging.NewComponentLogger(logger, "workspace")}
}

// Root returns the workspace root directory.
func (l *Local) Root() string {
	return l.root
}

// MoveTo implements Workspace.
func (l *Local) MoveTo(ctx context.Context, uri, mediaPackageID, elementID, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := ObjectKey("", mediaPackageID, elementID, fileName)
	if err != nil {
		return "", err
	}
	source, err := mediapackage.LocalPath(uri)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "workspace", "move", "resolve source", err)
	}
	dest := filepath.Join(l.root, filepath.FromSlash(key))
	if source == dest {
		return mediapackage.FileURI(dest), nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", services.Wrap(services.ErrStorage, "workspace", "move", "create destination", err)
	}
	if err := moveFile(source, dest); err != nil {
		return "", services.Wrap(services.ErrStorage, "workspace", "move", fmt.Sprintf("%s -> %s", source, dest), err)
	}
	l.logger.Debug("track relocated",
		logging.String("source", source),
		logging.String("destination", dest),
	)
	return mediapackage.FileURI(dest), nil
}

func moveFile(source, dest string) error {
	err := os.Rename(source, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}
	if err := copyFile(source, dest); err != nil {
		return err
	}
	return os.Remove(source)
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
