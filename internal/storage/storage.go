// Package storage keeps the raw uploaded spreadsheets, addressed by a
// generated name.
package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"finance-ledger-backend/internal/config"
)

// Store is a flat content store for uploaded files.
type Store interface {
	// Save writes r under name and returns the stored location and byte count.
	Save(ctx context.Context, name string, r io.Reader) (location string, size int64, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes name. A missing object is not an error.
	Remove(ctx context.Context, name string) error
}

// New builds the store selected by cfg.StorageBackend. A store that cannot be
// prepared (directory or bucket unavailable) is reported here, at startup.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3(ctx, S3Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
	case config.StorageLocal:
		return NewLocal(cfg.UploadDir)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// GenerateName returns "<unix millis>-<random><ext>", keeping the original
// extension in lower case.
func GenerateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.IntN(1e9), ext)
}
