package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/database"
	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	config := database.DefaultConnectionConfig()
	config.DatabasePath = filepath.Join(t.TempDir(), "catalog.db")
	config.Logger = logger

	manager := database.NewConnectionManager(config)
	if err := manager.Connect(); err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	return manager.GetDB()
}

func newTestRepository(t *testing.T) *CatalogRepository {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewCatalogRepository(setupTestDB(t), logger)
}

func TestCatalogRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	product := &models.Product{ID: "p1", Title: "Monstera", Description: "Split leaves", Price: 29.9}
	if err := repo.CreateProductWithStock(ctx, product, &models.Stock{ProductID: "p1", Count: 4}); err != nil {
		t.Fatalf("CreateProductWithStock() error = %v", err)
	}

	got, err := repo.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if *got != *product {
		t.Errorf("GetProduct() = %+v, want %+v", got, product)
	}

	stock, err := repo.GetStock(ctx, "p1")
	if err != nil {
		t.Fatalf("GetStock() error = %v", err)
	}
	if stock.Count != 4 {
		t.Errorf("stock count = %d, want 4", stock.Count)
	}

	if _, err := repo.GetProduct(ctx, "nope"); !repositories.IsNotFound(err) {
		t.Errorf("GetProduct(nope) error = %v, want not found", err)
	}
	if _, err := repo.GetStock(ctx, "nope"); !repositories.IsNotFound(err) {
		t.Errorf("GetStock(nope) error = %v, want not found", err)
	}
}

func TestCatalogRepository_DuplicateCancelsTransaction(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	product := &models.Product{ID: "dup", Title: "Ivy", Description: "Climber", Price: 8}
	if err := repo.CreateProductWithStock(ctx, product, &models.Stock{ProductID: "dup", Count: 1}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	changed := &models.Product{ID: "dup", Title: "Ivy 2", Description: "Climber", Price: 9}
	err := repo.CreateProductWithStock(ctx, changed, &models.Stock{ProductID: "dup", Count: 50})
	if !repositories.IsTransactionCanceled(err) {
		t.Fatalf("expected transaction canceled, got %v", err)
	}

	got, _ := repo.GetProduct(ctx, "dup")
	if got.Title != "Ivy" {
		t.Errorf("original product was modified: %+v", got)
	}
	stock, _ := repo.GetStock(ctx, "dup")
	if stock.Count != 1 {
		t.Errorf("original stock was modified: %+v", stock)
	}
}

func TestCatalogRepository_ListAndValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for i, id := range []string{"b", "a"} {
		p := &models.Product{ID: id, Title: id, Description: "d", Price: float64(i)}
		if err := repo.CreateProductWithStock(ctx, p, &models.Stock{ProductID: id, Count: i}); err != nil {
			t.Fatal(err)
		}
	}

	err := repo.CreateProductWithStock(ctx, &models.Product{ID: "c"}, &models.Stock{ProductID: "c", Count: -1})
	if !repositories.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	products, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 2 || products[0].ID != "b" {
		t.Errorf("unexpected products %+v", products)
	}

	stocks, err := repo.ListStocks(ctx)
	if err != nil {
		t.Fatalf("ListStocks() error = %v", err)
	}
	if len(stocks) != 2 || stocks[0].ProductID != "a" {
		t.Errorf("unexpected stocks %+v", stocks)
	}

	if err := repo.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
