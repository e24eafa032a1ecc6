package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

// CatalogRepository stores products and stocks in SQLite
type CatalogRepository struct {
	baseRepository
}

// NewCatalogRepository creates a SQLite-backed catalog over a migrated database
func NewCatalogRepository(db *sql.DB, logger *logrus.Logger) *CatalogRepository {
	return &CatalogRepository{baseRepository: newBaseRepository(db, logger)}
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// ListProducts retrieves every product ordered by rowid
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.executeQuery(ctx, "list", "products",
		`SELECT id, title, description, price FROM products ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Title, &product.Description, &product.Price); err != nil {
			return nil, repositories.NewRepositoryError("list", "product", "", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "product", "", err)
	}
	return products, nil
}

// ListStocks retrieves every stock record
func (r *CatalogRepository) ListStocks(ctx context.Context) ([]*models.Stock, error) {
	rows, err := r.executeQuery(ctx, "list", "stocks",
		`SELECT product_id, count FROM stocks ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []*models.Stock
	for rows.Next() {
		stock := &models.Stock{}
		if err := rows.Scan(&stock.ProductID, &stock.Count); err != nil {
			return nil, repositories.NewRepositoryError("list", "stock", "", err)
		}
		stocks = append(stocks, stock)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "stock", "", err)
	}
	return stocks, nil
}

// GetProduct retrieves a product by ID
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	row := r.executeQueryRow(ctx, "get", "products",
		`SELECT id, title, description, price FROM products WHERE id = ?`, id)

	product := &models.Product{}
	if err := row.Scan(&product.ID, &product.Title, &product.Description, &product.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.NewRepositoryError("get", "product", id, err)
	}
	return product, nil
}

// GetStock retrieves the stock record for a product
func (r *CatalogRepository) GetStock(ctx context.Context, productID string) (*models.Stock, error) {
	row := r.executeQueryRow(ctx, "get", "stocks",
		`SELECT product_id, count FROM stocks WHERE product_id = ?`, productID)

	stock := &models.Stock{}
	if err := row.Scan(&stock.ProductID, &stock.Count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("stock", productID)
		}
		return nil, repositories.NewRepositoryError("get", "stock", productID, err)
	}
	return stock, nil
}

// CreateProductWithStock inserts both rows in one SQL transaction.
// Constraint violations cancel the whole transaction.
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

	err := r.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, title, description, price) VALUES (?, ?, ?, ?)`,
			product.ID, product.Title, product.Description, product.Price,
		); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stocks (product_id, count) VALUES (?, ?)`,
			stock.ProductID, stock.Count,
		); err != nil {
			return fmt.Errorf("insert stock: %w", err)
		}
		return nil
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return repositories.TransactionCanceledError(product.ID, err)
		}
		var repoErr *repositories.RepositoryError
		if errors.As(err, &repoErr) {
			return err
		}
		return repositories.NewRepositoryError("create", "product", product.ID, err)
	}

	r.logger.WithField("product_id", product.ID).Debug("Product and stock inserted")
	return nil
}

// HealthCheck pings the database
func (r *CatalogRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return repositories.ConnectionError(err)
	}
	return nil
}
