package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

// MessageTransactionCanceled is returned when the store cancels the product+stock write
const MessageTransactionCanceled = "Transaction failed: Potential stock constraint violation."

// catalogService implements the CatalogService interface
type catalogService struct {
	repo   repositories.CatalogRepository
	logger *logrus.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(repo repositories.CatalogRepository, logger *logrus.Logger) CatalogService {
	if logger == nil {
		logger = logrus.New()
	}
	return &catalogService{repo: repo, logger: logger}
}

// ListProducts joins every product with its stock; a missing stock counts as 0
func (s *catalogService) ListProducts(ctx context.Context) ([]*models.ProductWithStock, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list products")
		return nil, NewInternalError(err)
	}

	stocks, err := s.repo.ListStocks(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list stocks")
		return nil, NewInternalError(err)
	}

	byProduct := make(map[string]*models.Stock, len(stocks))
	for _, stock := range stocks {
		byProduct[stock.ProductID] = stock
	}

	joined := make([]*models.ProductWithStock, 0, len(products))
	for _, product := range products {
		joined = append(joined, models.JoinStock(product, byProduct[product.ID]))
	}
	return joined, nil
}

// GetProduct returns one product joined with its stock
func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.ProductWithStock, error) {
	if id == "" {
		return nil, NewValidationError("id", "Product ID is required")
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("Product not found", err)
		}
		s.logger.WithError(err).WithField("product_id", id).Error("Failed to get product")
		return nil, NewInternalError(err)
	}

	stock, err := s.repo.GetStock(ctx, id)
	if err != nil && !repositories.IsNotFound(err) {
		s.logger.WithError(err).WithField("product_id", id).Error("Failed to get stock")
		return nil, NewInternalError(err)
	}

	return models.JoinStock(product, stock), nil
}

// CreateProduct validates a JSON body and writes the product and its stock atomically
func (s *catalogService) CreateProduct(ctx context.Context, body []byte) (*models.ProductWithStock, error) {
	req, err := models.ParseCreateProductRequest(body)
	if err != nil {
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			return nil, NewValidationError(fieldErr.Field, fieldErr.Message)
		}
		return nil, NewInternalError(err)
	}

	product := models.NewProduct(req.Title, req.Description, req.Price)
	stock := models.NewStock(product, req.Count)

	if err := s.repo.CreateProductWithStock(ctx, product, stock); err != nil {
		log := s.logger.WithError(err).WithField("product_id", product.ID)
		switch {
		case repositories.IsTransactionCanceled(err):
			log.Warn("Product transaction canceled")
			return nil, &ServiceError{Kind: KindTransactionCanceled, Message: MessageTransactionCanceled, Err: err}
		case repositories.IsValidation(err):
			return nil, NewValidationError("body", err.Error())
		default:
			log.Error("Failed to create product")
			return nil, NewUpstreamError("Database error: "+storeMessage(err), err)
		}
	}

	s.logger.WithField("product_id", product.ID).Info("Product created")
	return models.JoinStock(product, stock), nil
}

// storeMessage returns the store's own error text without repository decoration
func storeMessage(err error) string {
	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) && repoErr.Err != nil {
		return repoErr.Err.Error()
	}
	return err.Error()
}
