package storage

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// StorageType represents the type of storage implementation
type StorageType string

const (
	StorageTypeS3   StorageType = "s3"
	StorageTypeMock StorageType = "mock"
)

// Factory creates ObjectStore instances based on configuration
type Factory struct {
	s3Client  S3API
	presigner S3PresignAPI
	logger    *logrus.Logger
}

// NewFactory creates a storage factory. The S3 clients are only needed for the s3 type.
func NewFactory(s3Client S3API, presigner S3PresignAPI, logger *logrus.Logger) *Factory {
	return &Factory{
		s3Client:  s3Client,
		presigner: presigner,
		logger:    logger,
	}
}

// Create creates an ObjectStore instance based on the provided configuration
func (f *Factory) Create(config *StorageConfig) (ObjectStore, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	switch StorageType(strings.ToLower(config.Type)) {
	case StorageTypeS3:
		store, err := NewS3ObjectStore(f.s3Client, f.presigner, config.Bucket, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 storage: %w", err)
		}
		return store, nil
	case StorageTypeMock, "":
		return NewMockObjectStore(config.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
