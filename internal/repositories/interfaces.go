package repositories

import (
	"context"

	"plant-shop-api/internal/models"
)

// ProductReader defines read access to catalog products
type ProductReader interface {
	// ListProducts retrieves every product in the catalog
	ListProducts(ctx context.Context) ([]*models.Product, error)

	// GetProduct retrieves a product by its ID
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// StockReader defines read access to stock records
type StockReader interface {
	// ListStocks retrieves every stock record
	ListStocks(ctx context.Context) ([]*models.Stock, error)

	// GetStock retrieves the stock record for a product
	GetStock(ctx context.Context, productID string) (*models.Stock, error)
}

// CatalogRepository is the transactional store behind the catalog.
//
// CreateProductWithStock must write both records atomically: either both
// exist afterwards or neither does.
type CatalogRepository interface {
	ProductReader
	StockReader

	// CreateProductWithStock writes a product and its stock in one transaction
	CreateProductWithStock(ctx context.Context, product *models.Product, stock *models.Stock) error

	// HealthCheck verifies the backing store is reachable
	HealthCheck(ctx context.Context) error
}
