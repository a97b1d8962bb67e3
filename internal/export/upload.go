package export

import (
	"context"
	"fmt"
	"path/filepath"

	"catalog-crawl/internal/domain"
	"catalog-crawl/internal/sftpclient"
)

// Uploader ships a written file somewhere else under remoteName.
type Uploader func(ctx context.Context, localPath, remoteName string) error

// SFTPUploader uploads through sftpclient with a fixed configuration.
func SFTPUploader(cfg sftpclient.Config) Uploader {
	return func(ctx context.Context, localPath, remoteName string) error {
		return sftpclient.UploadFile(ctx, cfg, localPath, remoteName)
	}
}

// UploadSink writes through File and then uploads the result. Nothing is
// uploaded when the local write fails.
type UploadSink struct {
	File   FileSink
	Upload Uploader
}

func (s UploadSink) Path() string { return s.File.Path() }

func (s UploadSink) Write(ctx context.Context, records []domain.CourseRecord) error {
	if err := s.File.Write(ctx, records); err != nil {
		return err
	}
	if err := s.Upload(ctx, s.File.Path(), filepath.Base(s.File.Path())); err != nil {
		return fmt.Errorf("export: upload %s: %w", s.File.Path(), err)
	}
	return nil
}
