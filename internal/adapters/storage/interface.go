package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the content store holding uploaded catalog files.
// Keys are bucket-relative, e.g. "uploaded/products.csv". Objects are written
// by clients through presigned URLs, never through the store itself.
type ObjectStore interface {
	// Open streams an object; the caller must close the reader
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error

	// Copy copies an object from one key to another
	Copy(ctx context.Context, srcKey, destKey string) error

	// PresignPut returns a time-limited URL that accepts a PUT of the given content type
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// Close cleans up any resources used by the implementation
	Close() error
}

// StorageConfig represents configuration for storage providers
type StorageConfig struct {
	Type   string `json:"type" yaml:"type"`     // "s3" or "mock"
	Bucket string `json:"bucket" yaml:"bucket"` // S3 bucket name
	Region string `json:"region" yaml:"region"`
}
