package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/adapters/notify"
	"plant-shop-api/internal/adapters/queue"
	"plant-shop-api/internal/adapters/storage"
	"plant-shop-api/internal/repositories"
)

// ServiceContainer holds the service instances whose dependencies were provided.
// A service is nil when its store or adapter is absent.
type ServiceContainer struct {
	Authorizer     Authorizer
	ImportService  ImportService
	CatalogService CatalogService
	BatchProcessor BatchProcessor
}

// Dependencies are the stores and adapters services are built on
type Dependencies struct {
	Catalog     repositories.CatalogRepository
	Store       storage.ObjectStore
	Sender      queue.MessageSender
	Publisher   notify.Publisher
	Credentials map[string]string
	Import      ImportConfig
	Logger      *logrus.Logger
}

// NewServiceContainer creates the services the given dependencies can serve:
// the catalog service needs the catalog, the import service the object store
// (the queue sender only for parsing), the batch processor the catalog and publisher.
func NewServiceContainer(deps *Dependencies) (*ServiceContainer, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies cannot be nil")
	}

	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}

	container := &ServiceContainer{
		Authorizer: NewAuthorizer(deps.Credentials, logger),
	}
	if deps.Catalog != nil {
		container.CatalogService = NewCatalogService(deps.Catalog, logger)
	}
	if deps.Store != nil {
		container.ImportService = NewImportService(deps.Store, deps.Sender, deps.Import, logger)
	}
	if deps.Catalog != nil && deps.Publisher != nil {
		container.BatchProcessor = NewBatchProcessor(deps.Catalog, deps.Publisher, logger)
	}

	return container, nil
}
