package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

// CatalogRepository keeps products and stocks in process memory
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	stocks   map[string]models.Stock
	order    []string

	// FailNextCreate makes the next create return this error without writing
	FailNextCreate error
}

// NewCatalogRepository creates an empty in-memory catalog
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products: make(map[string]models.Product),
		stocks:   make(map[string]models.Stock),
	}
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// ListProducts returns products in insertion order
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*models.Product, 0, len(r.order))
	for _, id := range r.order {
		product := r.products[id]
		products = append(products, &product)
	}
	return products, nil
}

// GetProduct retrieves a product by ID
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, repositories.NotFoundError("product", id)
	}
	return &product, nil
}

// ListStocks returns every stock record ordered by product ID
func (r *CatalogRepository) ListStocks(ctx context.Context) ([]*models.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stocks := make([]*models.Stock, 0, len(r.stocks))
	for _, stock := range r.stocks {
		stocks = append(stocks, &stock)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ProductID < stocks[j].ProductID })
	return stocks, nil
}

// GetStock retrieves the stock for a product
func (r *CatalogRepository) GetStock(ctx context.Context, productID string) (*models.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stock, ok := r.stocks[productID]
	if !ok {
		return nil, repositories.NotFoundError("stock", productID)
	}
	return &stock, nil
}

// CreateProductWithStock stores both records or neither.
// An existing ID is overwritten, matching a DynamoDB Put.
func (r *CatalogRepository) CreateProductWithStock(ctx context.Context, product *models.Product, stock *models.Stock) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}
	if err := stock.Validate(); err != nil {
		return repositories.ValidationError("stock", stock.ProductID, err)
	}
	if stock.ProductID != product.ID {
		return repositories.ValidationError("stock", stock.ProductID, errors.New("stock does not belong to product"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailNextCreate; err != nil {
		r.FailNextCreate = nil
		return err
	}

	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = *product
	r.stocks[stock.ProductID] = *stock
	return nil
}

// PutStock writes a stock record alone; used to model orphaned or missing stock in tests
func (r *CatalogRepository) PutStock(stock *models.Stock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stocks[stock.ProductID] = *stock
}

// DeleteStock removes a stock record; used to model a product whose stock is missing
func (r *CatalogRepository) DeleteStock(productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stocks, productID)
}

// Len returns the number of products and stocks held
func (r *CatalogRepository) Len() (products, stocks int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), len(r.stocks)
}

// HealthCheck always succeeds
func (r *CatalogRepository) HealthCheck(ctx context.Context) error {
	return nil
}
