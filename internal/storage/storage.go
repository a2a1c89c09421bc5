package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/denbox/denbox/internal/config"
)

// ErrBlobNotFound is returned by Open and Delete when no blob exists at the path.
var ErrBlobNotFound = errors.New("blob not found")

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores a blob at the given path
	Save(path string, file io.Reader) error

	// Open streams the blob at the given path
	Open(path string) (io.ReadCloser, error)

	// Delete removes the blob at the given path
	Delete(path string) error
}

// New creates a storage backend based on app config.
// "local" keeps blobs in an uploads directory on disk; "s3" works with any
// S3-compatible service (AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.)
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
