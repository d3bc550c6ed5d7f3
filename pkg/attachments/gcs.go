package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores attachments as objects of one bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewGCS connects to Cloud Storage. credentialsFile may be empty to use the
// default credentials of the environment.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required for the gcs attachment backend")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, prefix: "attachments/", now: time.Now}, nil
}

func (g *GCS) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	stored, err := StoredName(g.now(), name)
	if err != nil {
		return "", err
	}
	w := g.client.Bucket(g.bucket).Object(g.prefix + stored).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", name, err)
	}
	slog.Info("attachment uploaded", "bucket", g.bucket, "object", g.prefix+stored)
	return stored, nil
}

func (g *GCS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	rc, err := g.client.Bucket(g.bucket).Object(g.prefix + name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rc, err
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
