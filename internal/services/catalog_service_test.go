package services

import (
	"context"
	"errors"
	"testing"

	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
	"plant-shop-api/internal/repositories/memory"
)

func TestCatalogService_CreateThenGet(t *testing.T) {
	repo := memory.NewCatalogRepository()
	svc := NewCatalogService(repo, quietLogger())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, []byte(`{"title":"Peace Lily","description":"Elegant white flowers","price":30,"count":8}`))
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}

	got, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if *got != *created {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, created)
	}
	if got.Count != 8 || got.Price != 30 {
		t.Errorf("unexpected product %+v", got)
	}
}

func TestCatalogService_CreateValidation(t *testing.T) {
	repo := memory.NewCatalogRepository()
	svc := NewCatalogService(repo, quietLogger())

	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"missing title", `{"description":"d","price":1,"count":1}`, "title", "Missing required field: title"},
		{"string price", `{"title":"t","description":"d","price":"1","count":1}`, "price", "Field 'price' must be of type number"},
		{"negative price", `{"title":"t","description":"d","price":-5,"count":1}`, "price", "Price must be a non-negative number"},
		{"negative count", `{"title":"t","description":"d","price":5,"count":-1}`, "count", "Stock count cannot be negative"},
		{"invalid json", `not json`, "body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), []byte(tt.body))
			var serviceErr *ServiceError
			if !errors.As(err, &serviceErr) || serviceErr.Kind != KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if serviceErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", serviceErr.Field, tt.field)
			}
			if tt.message != "" && serviceErr.Message != tt.message {
				t.Errorf("Message = %q, want %q", serviceErr.Message, tt.message)
			}
		})
	}

	if products, stocks := repo.Len(); products != 0 || stocks != 0 {
		t.Errorf("invalid requests wrote %d products and %d stocks", products, stocks)
	}
}

func TestCatalogService_CreateStoreErrors(t *testing.T) {
	body := []byte(`{"title":"t","description":"d","price":1,"count":1}`)

	t.Run("transaction canceled", func(t *testing.T) {
		repo := memory.NewCatalogRepository()
		repo.FailNextCreate = repositories.TransactionCanceledError("x", errors.New("ConditionalCheckFailed"))
		svc := NewCatalogService(repo, quietLogger())

		_, err := svc.CreateProduct(context.Background(), body)
		if !IsTransactionCanceled(err) {
			t.Fatalf("expected transaction canceled, got %v", err)
		}
		if PublicMessage(err) != MessageTransactionCanceled {
			t.Errorf("message = %q", PublicMessage(err))
		}
	})

	t.Run("other store error", func(t *testing.T) {
		repo := memory.NewCatalogRepository()
		repo.FailNextCreate = repositories.NewRepositoryError("create", "product", "x", errors.New("ResourceNotFoundException: table missing"))
		svc := NewCatalogService(repo, quietLogger())

		_, err := svc.CreateProduct(context.Background(), body)
		if !IsUpstream(err) {
			t.Fatalf("expected upstream error, got %v", err)
		}
		if PublicMessage(err) != "Database error: ResourceNotFoundException: table missing" {
			t.Errorf("message = %q", PublicMessage(err))
		}
	})
}

func TestCatalogService_GetProduct(t *testing.T) {
	repo := memory.NewCatalogRepository()
	svc := NewCatalogService(repo, quietLogger())
	ctx := context.Background()

	product := &models.Product{ID: "p1", Title: "Orchid", Description: "Exotic", Price: 45}
	repo.CreateProductWithStock(ctx, product, &models.Stock{ProductID: "p1", Count: 2})

	_, err := svc.GetProduct(ctx, "")
	if !IsValidation(err) || PublicMessage(err) != "Product ID is required" {
		t.Errorf("empty id error = %v", err)
	}

	_, err = svc.GetProduct(ctx, "missing")
	if !IsNotFound(err) || PublicMessage(err) != "Product not found" {
		t.Errorf("missing id error = %v", err)
	}

	repo.DeleteStock("p1")
	got, err := svc.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.Count != 0 {
		t.Errorf("missing stock should read as 0, got %d", got.Count)
	}
}

func TestCatalogService_ListProducts(t *testing.T) {
	repo := memory.NewCatalogRepository()
	svc := NewCatalogService(repo, quietLogger())
	ctx := context.Background()

	repo.CreateProductWithStock(ctx, &models.Product{ID: "a", Title: "A", Price: 1.5}, &models.Stock{ProductID: "a", Count: 4})
	repo.CreateProductWithStock(ctx, &models.Product{ID: "b", Title: "B", Price: 2}, &models.Stock{ProductID: "b", Count: 9})
	repo.DeleteStock("b")
	repo.PutStock(&models.Stock{ProductID: "orphan", Count: 3})

	first, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d products, want 2", len(first))
	}

	counts := map[string]int{}
	for _, item := range first {
		counts[item.ID] = item.Count
	}
	if counts["a"] != 4 || counts["b"] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}

	second, _ := svc.ListProducts(ctx)
	if len(second) != len(first) {
		t.Errorf("List is not stable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if *first[i] != *second[i] {
			t.Errorf("List changed at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

type failingCatalog struct {
	repositories.CatalogRepository
}

func (failingCatalog) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return nil, errors.New("scan failed")
}

func (failingCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return nil, errors.New("connection reset")
}

func TestCatalogService_UnexpectedErrorsAreGeneric(t *testing.T) {
	svc := NewCatalogService(failingCatalog{}, quietLogger())

	_, err := svc.ListProducts(context.Background())
	if KindOf(err) != KindInternal || PublicMessage(err) != "Internal server error" {
		t.Errorf("list error = %v", err)
	}

	_, err = svc.GetProduct(context.Background(), "p1")
	if KindOf(err) != KindInternal || PublicMessage(err) != "Internal server error" {
		t.Errorf("get error = %v", err)
	}
}
