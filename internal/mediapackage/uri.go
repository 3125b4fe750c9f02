package mediapackage

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// LocalPath resolves a file:// URI or bare filesystem path to a local path.
// Remote schemes are rejected.
func LocalPath(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("empty uri")
	}
	if !strings.Contains(uri, "://") {
		return filepath.Clean(uri), nil
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("uri %q is not local (scheme %s)", uri, parsed.Scheme)
	}
	return filepath.FromSlash(parsed.Path), nil
}

// FileURI renders a local path as a file:// URI.
func FileURI(localPath string) string {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		abs = localPath
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// URIPath returns the path component of a URI, or the value itself for bare paths.
func URIPath(uri string) string {
	uri = strings.TrimSpace(uri)
	if strings.Contains(uri, "://") {
		if parsed, err := url.Parse(uri); err == nil {
			return parsed.Path
		}
	}
	return filepath.ToSlash(uri)
}

// BaseName returns the last path element of a URI without its extension.
func BaseName(uri string) string {
	base := path.Base(URIPath(uri))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Extension returns the extension of a URI's last path element including the
// leading dot, or "" when there is none.
func Extension(uri string) string {
	base := path.Base(URIPath(uri))
	if base == "." || base == "/" {
		return ""
	}
	return path.Ext(base)
}
