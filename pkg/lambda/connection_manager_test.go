package lambda

import (
	"context"
	"testing"
	"time"

	"plant-shop-api/internal/config"
	"plant-shop-api/pkg/server"
)

func localConfig() *config.Config {
	return &config.Config{
		LogLevel: "error",
		Catalog:  config.CatalogConfig{Backend: config.BackendMemory},
		Import: config.ImportConfig{
			StorageType:     "mock",
			QueueType:       "mock",
			UploadURLExpiry: time.Hour,
		},
		Notification: config.NotificationConfig{Type: "mock"},
	}
}

func TestConnectionManager_CachesContainer(t *testing.T) {
	cm := &ConnectionManager{config: localConfig()}

	first, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() error = %v", err)
	}
	second, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() error = %v", err)
	}
	if first != second {
		t.Error("expected the container to be reused")
	}
	if first.Services.BatchProcessor == nil || first.Services.ImportService == nil {
		t.Error("without Initialize every component should be built")
	}

	if err := cm.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	third, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() after cleanup error = %v", err)
	}
	if third == first {
		t.Error("expected a new container after cleanup")
	}
}

func TestConnectionManager_InitializeSelectsComponents(t *testing.T) {
	cm := &ConnectionManager{config: localConfig()}
	cm.Initialize(server.ComponentCatalog)

	container, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() error = %v", err)
	}
	if container.Services.CatalogService == nil {
		t.Error("catalog service should be built")
	}
	if container.Services.ImportService != nil || container.Services.BatchProcessor != nil {
		t.Error("unselected services should not be built")
	}

	cm.Initialize(server.ComponentAll)
	if cm.components != server.ComponentCatalog {
		t.Error("Initialize must not change an existing container")
	}
}

func TestConnectionManager_ProductsFunctionWithTableSettingsOnly(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "products")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("PRODUCTS_TABLE_NAME", "products")
	t.Setenv("STOCK_TABLE_NAME", "stocks")
	t.Setenv("BUCKET_NAME", "")
	t.Setenv("SQS_QUEUE_URL", "")
	t.Setenv("SNS_TOPIC_ARN", "")

	cm := &ConnectionManager{}
	cm.Initialize(server.ComponentCatalog)

	container, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() error = %v", err)
	}
	defer cm.Cleanup()

	if container.Config.Catalog.Backend != config.BackendDynamoDB {
		t.Errorf("backend = %q, want dynamodb", container.Config.Catalog.Backend)
	}
	if container.Services.CatalogService == nil {
		t.Error("catalog service should be built")
	}
}

func TestConnectionManager_FailedBuildIsRetried(t *testing.T) {
	cm := &ConnectionManager{config: &config.Config{Catalog: config.CatalogConfig{Backend: "unknown"}}}

	if _, err := cm.GetContainer(context.Background()); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
	if cm.container != nil {
		t.Error("a failed build must not be cached")
	}
}
