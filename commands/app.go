package commands

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"
	"p9e.in/ncac/config"
	"p9e.in/ncac/pkg/attachments"
	"p9e.in/ncac/pkg/ncstore"
)

// app bundles what every command opens from the configuration.
type app struct {
	db    *gorm.DB
	store *ncstore.Store
	files attachments.Store
}

func openApp(ctx context.Context, c config.Config) (*app, error) {
	db, err := config.Connect(c)
	if err != nil {
		return nil, err
	}
	files, err := openAttachments(ctx, c)
	if err != nil {
		return nil, err
	}
	return &app{db: db, store: ncstore.New(db), files: files}, nil
}

func openAttachments(ctx context.Context, c config.Config) (attachments.Store, error) {
	switch c.AttachmentBackend {
	case config.BackendLocal:
		return attachments.NewLocal(c.AttachDir)
	case config.BackendGCS:
		if c.GCSBucket == "" {
			return nil, fmt.Errorf("ATTACHMENT_BACKEND=gcs needs GCS_BUCKET")
		}
		return attachments.NewGCS(ctx, c.GCSBucket, c.GCSCredentials)
	}
	return nil, fmt.Errorf("unsupported ATTACHMENT_BACKEND %q", c.AttachmentBackend)
}

func (a *app) Close() error {
	if c, ok := a.files.(io.Closer); ok {
		c.Close()
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
