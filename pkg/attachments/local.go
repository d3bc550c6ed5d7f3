package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Local stores attachments in a directory of the working tree.
type Local struct {
	dir string
	now func() time.Time
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	slog.Info("attachment directory ready", "dir", dir)
	return &Local{dir: dir, now: time.Now}, nil
}

// Dir is the attachment directory.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	stored, err := StoredName(l.now(), name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(l.dir, stored)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", stored, err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to copy %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}

	slog.Info("attachment stored", "original", name, "stored", stored)
	return stored, nil
}

func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, err
}
