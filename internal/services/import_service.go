package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/adapters/queue"
	"plant-shop-api/internal/adapters/storage"
)

// ImportConfig holds the key layout and URL settings of the import flow
type ImportConfig struct {
	UploadPrefix string
	ParsedPrefix string
	URLExpiry    time.Duration
	ContentType  string
}

// DefaultImportConfig returns the uploaded/ -> parsed/ layout with one-hour URLs
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		UploadPrefix: "uploaded/",
		ParsedPrefix: "parsed/",
		URLExpiry:    time.Hour,
		ContentType:  "text/csv",
	}
}

// importService implements the ImportService interface
type importService struct {
	store  storage.ObjectStore
	sender queue.MessageSender
	config ImportConfig
	logger *logrus.Logger
}

// NewImportService creates a new import service instance
func NewImportService(store storage.ObjectStore, sender queue.MessageSender, config ImportConfig, logger *logrus.Logger) ImportService {
	if logger == nil {
		logger = logrus.New()
	}
	defaults := DefaultImportConfig()
	if config.UploadPrefix == "" {
		config.UploadPrefix = defaults.UploadPrefix
	}
	if config.ParsedPrefix == "" {
		config.ParsedPrefix = defaults.ParsedPrefix
	}
	if config.URLExpiry <= 0 {
		config.URLExpiry = defaults.URLExpiry
	}
	if config.ContentType == "" {
		config.ContentType = defaults.ContentType
	}
	return &importService{
		store:  store,
		sender: sender,
		config: config,
		logger: logger,
	}
}

// CreateUploadURL returns a presigned PUT URL scoped to the upload prefix
func (s *importService) CreateUploadURL(ctx context.Context, fileName string) (string, error) {
	if fileName == "" {
		return "", NewValidationError("name", "File name is required")
	}

	key := s.config.UploadPrefix + fileName
	url, err := s.store.PresignPut(ctx, key, s.config.ContentType, s.config.URLExpiry)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to presign upload URL")
		return "", NewUpstreamError(err.Error(), err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":    key,
		"expiry": s.config.URLExpiry,
	}).Info("Upload URL issued")
	return url, nil
}

// ProcessUploadedObject streams the object's rows to the queue, one message per
// row, then copies it under the parsed prefix and deletes the original.
// The first failure stops processing; rows already sent stay sent.
func (s *importService) ProcessUploadedObject(ctx context.Context, key string) (*ImportResult, error) {
	log := s.logger.WithField("key", key)
	log.Info("Processing uploaded object")

	if s.sender == nil {
		return nil, NewInternalError(fmt.Errorf("queue sender is not configured"))
	}

	body, err := s.store.Open(ctx, key)
	if err != nil {
		log.WithError(err).Error("Failed to read uploaded object")
		return nil, NewUpstreamError("failed to read uploaded object", err)
	}
	defer body.Close()

	result := &ImportResult{Key: key, Destination: s.ParsedKey(key)}

	for row, err := range ReadRows(body) {
		if err != nil {
			log.WithError(err).WithField("rows_sent", result.Rows).Error("Failed to parse uploaded object")
			return result, NewUpstreamError("failed to parse uploaded object", err)
		}

		message, err := row.Message()
		if err != nil {
			return result, NewInternalError(err)
		}

		messageID, err := s.sender.SendMessage(ctx, message)
		if err != nil {
			log.WithError(err).WithField("rows_sent", result.Rows).Error("Failed to queue row")
			return result, NewUpstreamError("failed to queue row", err)
		}
		result.Rows++
		log.WithFields(logrus.Fields{"row": result.Rows, "message_id": messageID}).Debug("Row queued")
	}

	if err := s.store.Copy(ctx, key, result.Destination); err != nil {
		log.WithError(err).Error("Failed to copy object to parsed prefix")
		return result, NewUpstreamError("failed to copy object", err)
	}

	if key != s.config.UploadPrefix {
		if err := s.store.Delete(ctx, key); err != nil {
			log.WithError(err).Error("Failed to delete uploaded object")
			return result, NewUpstreamError("failed to delete object", err)
		}
		result.Deleted = true
	}

	log.WithFields(logrus.Fields{
		"rows":        result.Rows,
		"destination": result.Destination,
	}).Info("Uploaded object processed")
	return result, nil
}

// ParsedKey maps an upload key to its location under the parsed prefix
func (s *importService) ParsedKey(key string) string {
	if rest, ok := strings.CutPrefix(key, s.config.UploadPrefix); ok {
		return s.config.ParsedPrefix + rest
	}
	return s.config.ParsedPrefix + key
}

// ProcessUploadedObjects handles every key of one object-created notification in order
// and stops at the first failure so the platform redelivers the event.
func ProcessUploadedObjects(ctx context.Context, svc ImportService, keys []string) ([]*ImportResult, error) {
	results := make([]*ImportResult, 0, len(keys))
	for _, key := range keys {
		result, err := svc.ProcessUploadedObject(ctx, key)
		if err != nil {
			return results, fmt.Errorf("processing %s: %w", key, err)
		}
		results = append(results, result)
	}
	return results, nil
}
