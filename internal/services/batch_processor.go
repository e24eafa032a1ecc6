package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/adapters/notify"
	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

// Batch result messages
const (
	MessageNoRecords     = "No records to process"
	MessageProductsAdded = "Products added successfully"
	MessageNewProduct    = "New product added"
)

// batchProcessor implements the BatchProcessor interface
type batchProcessor struct {
	repo      repositories.CatalogRepository
	publisher notify.Publisher
	logger    *logrus.Logger
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(repo repositories.CatalogRepository, publisher notify.Publisher, logger *logrus.Logger) BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	return &batchProcessor{repo: repo, publisher: publisher, logger: logger}
}

// ProcessBatch writes each message as a product+stock transaction.
//
// A message that cannot be decoded or written is logged and skipped. A message
// missing a required field stops the batch: later messages are not attempted and
// the result is a 400. Every product committed before the stop is still announced,
// one notification per product.
func (p *batchProcessor) ProcessBatch(ctx context.Context, messages []QueuedMessage) *BatchResult {
	if len(messages) == 0 {
		return &BatchResult{StatusCode: http.StatusOK, Message: MessageNoRecords}
	}

	result := &BatchResult{StatusCode: http.StatusOK, Message: MessageProductsAdded}

	for _, msg := range messages {
		log := p.logger.WithField("message_id", msg.ID)

		item, missing, err := decodeItem(msg.Body)
		if missing != "" {
			log.WithField("field", missing).Warn("Message is missing a required field, stopping batch")
			result.StatusCode = http.StatusBadRequest
			result.InvalidField = missing
			result.Message = fmt.Sprintf("Invalid input: %s is missing", missing)
			break
		}
		if err != nil {
			log.WithError(err).Error("Skipping message")
			result.Skipped++
			continue
		}

		product, stock := item.Split()
		if err := p.repo.CreateProductWithStock(ctx, product, stock); err != nil {
			log.WithError(err).WithField("product_id", product.ID).Error("Transaction failed, skipping message")
			result.Skipped++
			continue
		}

		log.WithField("product_id", product.ID).Info("Product and stock written")
		result.Accepted = append(result.Accepted, item)
	}

	p.announce(ctx, result.Accepted)

	p.logger.WithFields(logrus.Fields{
		"received": len(messages),
		"accepted": len(result.Accepted),
		"skipped":  result.Skipped,
		"status":   result.StatusCode,
	}).Info("Batch processed")
	return result
}

func decodeItem(body string) (item *models.ProductWithStock, missing string, err error) {
	message, err := models.DecodeCatalogMessage(body)
	if err != nil {
		return nil, "", err
	}
	if field := message.MissingField(); field != "" {
		return nil, field, nil
	}
	item, err = message.ToProduct()
	return item, "", err
}

// announce publishes one notification per accepted product. Failures are logged only.
func (p *batchProcessor) announce(ctx context.Context, accepted []*models.ProductWithStock) {
	for _, item := range accepted {
		msg, err := NewProductNotification(item)
		if err != nil {
			p.logger.WithError(err).WithField("product_id", item.ID).Error("Failed to build notification")
			continue
		}

		messageID, err := p.publisher.Publish(ctx, msg)
		if err != nil {
			p.logger.WithError(err).WithField("product_id", item.ID).Error("Failed to publish notification")
			continue
		}
		p.logger.WithFields(logrus.Fields{
			"product_id": item.ID,
			"message_id": messageID,
		}).Info("Notification published")
	}
}

// ProductNotification is the payload subscribers receive for a new product
type ProductNotification struct {
	Message string                   `json:"message"`
	Product *models.ProductWithStock `json:"product"`
}

// NewProductNotification builds the per-protocol JSON envelope for one product,
// with a numeric price attribute for subscription filter policies.
func NewProductNotification(item *models.ProductWithStock) (notify.Message, error) {
	payload, err := json.Marshal(ProductNotification{Message: MessageNewProduct, Product: item})
	if err != nil {
		return notify.Message{}, fmt.Errorf("encode notification: %w", err)
	}

	envelope, err := json.Marshal(map[string]string{"default": string(payload)})
	if err != nil {
		return notify.Message{}, fmt.Errorf("encode notification envelope: %w", err)
	}

	return notify.Message{
		Subject:   MessageNewProduct,
		Body:      string(envelope),
		Structure: "json",
		Attributes: map[string]notify.Attribute{
			"price": {DataType: "Number", Value: models.FormatPrice(item.Price)},
		},
	}, nil
}
