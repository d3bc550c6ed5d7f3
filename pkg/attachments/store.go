// Package attachments copies files attached to a non-conformance into
// durable storage under collision-free names.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrInvalidName = errors.New("invalid attachment name")
	ErrNotFound    = errors.New("attachment not found")
)

// Store keeps attachment contents. Put returns the stored filename, which is
// the only thing persisted with a corrective action.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// StampLayout prefixes stored filenames.
const StampLayout = "20060102150405"

// StoredName prefixes the base name of the original file with a timestamp.
func StoredName(now time.Time, original string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" || base == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, original)
	}
	return now.Format(StampLayout) + "_" + base, nil
}

// checkName rejects names that would escape the attachment directory.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
