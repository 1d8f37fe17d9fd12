package bucket

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"papercast/internal/fileutil"
)

// Local stores blobs under a directory tree. Upload returns absolute file
// paths so stored references stay resolvable from anywhere on the host.
type Local struct {
	dir string
}

// NewLocal constructs a directory-backed store rooted at dir.
func NewLocal(dir string) (*Local, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("bucket: local directory required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("bucket: resolve local directory: %w", err)
	}
	return &Local{dir: abs}, nil
}

// Upload writes the blob atomically, creating parents as needed. The
// content type is accepted for interface parity and ignored.
func (l *Local) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("bucket upload: empty payload")
	}
	target, err := l.resolve(path)
	if err != nil {
		return "", err
	}
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("bucket upload: %w", err)
	}
	return target, nil
}

// Download reads a blob back. Absolute references (as returned by Upload)
// are read directly; bare object paths resolve against the store root.
func (l *Local) Download(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("bucket download: empty reference")
	}

	target := ref
	if !filepath.IsAbs(target) {
		resolved, err := l.resolve(ref)
		if err != nil {
			return nil, err
		}
		target = resolved
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("bucket download: %w", err)
	}
	return data, nil
}

// PublicURL reports the absolute filesystem location for a path.
func (l *Local) PublicURL(path string) string {
	target, err := l.resolve(path)
	if err != nil {
		return filepath.Join(l.dir, filepath.FromSlash(strings.TrimSpace(path)))
	}
	return target
}

// HealthCheck ensures the store root exists and is writable.
func (l *Local) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("bucket health: create root: %w", err)
	}
	if err := unix.Access(l.dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("bucket health: %s not writable: %w", l.dir, err)
	}
	return nil
}

// resolve maps an object path to an absolute location inside the root,
// rejecting anything that would escape it.
func (l *Local) resolve(path string) (string, error) {
	object, err := normalizeObjectPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.dir, filepath.FromSlash(object)), nil
}
