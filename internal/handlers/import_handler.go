package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/services"
	"plant-shop-api/pkg/lambda"
)

// ImportHandler issues upload URLs and reacts to uploaded files
type ImportHandler struct {
	importService services.ImportService
	logger        *logrus.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService services.ImportService, logger *logrus.Logger) *ImportHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// @Summary Create an upload URL
// @Description Returns a presigned PUT URL for uploaded/<name>, valid for one hour
// @Tags import
// @Produce plain
// @Param name query string true "CSV file name"
// @Security BasicAuth
// @Success 200 {string} string "Presigned URL"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /import [get]
func (h *ImportHandler) ImportProductsFile(c *gin.Context) {
	h.uploadURL(c.Request.Context(), c.Query("name")).write(c)
}

// HandleImport serves GET /import?name=<file>
func (h *ImportHandler) HandleImport(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.uploadURL(ctx, req.QueryParams["name"]).toLambda(), nil
}

func (h *ImportHandler) uploadURL(ctx context.Context, name string) *result {
	signed, err := h.importService.CreateUploadURL(ctx, name)
	if err != nil {
		return jsonResult(statusFor(err), importHeaders(), ErrorResponse{Error: services.PublicMessage(err)})
	}
	return textResult(http.StatusOK, importHeaders(), signed)
}

// HandleS3Event processes every object named in an object-created event.
// Errors are logged and returned so the platform can redeliver the event.
func (h *ImportHandler) HandleS3Event(ctx context.Context, event events.S3Event) error {
	keys := make([]string, 0, len(event.Records))
	for _, record := range event.Records {
		key, err := objectKey(record.S3.Object)
		if err != nil {
			h.logger.WithError(err).WithField("key", record.S3.Object.Key).Error("Failed to decode object key")
			return err
		}
		h.logger.WithFields(logrus.Fields{
			"bucket": record.S3.Bucket.Name,
			"key":    key,
		}).Info("Processing uploaded object")
		keys = append(keys, key)
	}

	results, err := services.ProcessUploadedObjects(ctx, h.importService, keys)
	if err != nil {
		h.logger.WithError(err).Error("Upload processing failed")
		return err
	}

	for _, res := range results {
		h.logger.WithFields(logrus.Fields{
			"key":         res.Key,
			"destination": res.Destination,
			"rows":        res.Rows,
		}).Info("Uploaded object parsed")
	}
	return nil
}

// objectKey returns the decoded key of an event object. Keys in S3 events are
// URL-encoded; URLDecodedKey is only filled when the event was unmarshalled.
func objectKey(object events.S3Object) (string, error) {
	if object.URLDecodedKey != "" {
		return object.URLDecodedKey, nil
	}
	return url.QueryUnescape(object.Key)
}
