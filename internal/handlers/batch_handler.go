package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/services"
	"plant-shop-api/pkg/lambda"
)

// BatchHandler adapts queue events to the batch processor
type BatchHandler struct {
	processor services.BatchProcessor
	logger    *logrus.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(processor services.BatchProcessor, logger *logrus.Logger) *BatchHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchHandler{processor: processor, logger: logger}
}

// HandleSQSEvent processes one queue batch and returns its summary
func (h *BatchHandler) HandleSQSEvent(ctx context.Context, event events.SQSEvent) (*lambda.Response, error) {
	messages := make([]services.QueuedMessage, 0, len(event.Records))
	for _, record := range event.Records {
		messages = append(messages, services.QueuedMessage{ID: record.MessageId, Body: record.Body})
	}

	h.logger.WithField("records", len(messages)).Info("Received queue batch")

	res := h.processor.ProcessBatch(ctx, messages)
	return jsonResult(res.StatusCode, map[string]string{}, MessageResponse{Message: res.Message}).toLambda(), nil
}
