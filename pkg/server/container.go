package server

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/adapters/notify"
	"plant-shop-api/internal/adapters/queue"
	"plant-shop-api/internal/adapters/storage"
	"plant-shop-api/internal/config"
	"plant-shop-api/internal/database"
	"plant-shop-api/internal/repositories"
	"plant-shop-api/internal/repositories/dynamodb"
	"plant-shop-api/internal/repositories/memory"
	"plant-shop-api/internal/repositories/sqlite"
	"plant-shop-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Catalog  repositories.CatalogRepository
	Store    storage.ObjectStore
	Services *services.ServiceContainer

	db *database.ConnectionManager
}

// Component is a group of dependencies a process builds
type Component uint8

const (
	// ComponentCatalog is the product and stock repository
	ComponentCatalog Component = 1 << iota
	// ComponentUploads is the object store holding uploaded files
	ComponentUploads
	// ComponentQueue is the sender for parsed rows
	ComponentQueue
	// ComponentNotifications is the publisher for created products
	ComponentNotifications

	ComponentAll = ComponentCatalog | ComponentUploads | ComponentQueue | ComponentNotifications
)

// Has reports whether every component of other is selected
func (c Component) Has(other Component) bool {
	return c&other == other
}

// awsClients are only created for the adapters that need them
type awsClients struct {
	dynamo    dynamodb.DynamoDBAPI
	s3        storage.S3API
	presigner storage.S3PresignAPI
	sqs       queue.SQSAPI
	sns       notify.SNSAPI
}

// NewLogger builds the process logger: JSON inside Lambda, text otherwise
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if config.IsServerlessMode() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewContainer creates a new dependency injection container with every component
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	return NewContainerFor(ctx, cfg, logger, ComponentAll)
}

// NewContainerFor creates a container holding only the selected components.
// Services whose dependencies are not selected are left nil, so a function
// needs configuration only for what it uses.
func NewContainerFor(ctx context.Context, cfg *config.Config, logger *logrus.Logger, components Component) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = NewLogger(cfg)
	}

	clients, err := newAWSClients(ctx, cfg, components)
	if err != nil {
		return nil, err
	}

	container := &Container{Config: cfg, Logger: logger}
	deps := &services.Dependencies{
		Credentials: cfg.Auth.Credentials,
		Import: services.ImportConfig{
			UploadPrefix: cfg.Import.UploadPrefix,
			ParsedPrefix: cfg.Import.ParsedPrefix,
			URLExpiry:    cfg.Import.UploadURLExpiry,
		},
		Logger: logger,
	}

	if components.Has(ComponentCatalog) {
		if err := container.initCatalog(clients); err != nil {
			return nil, err
		}
		deps.Catalog = container.Catalog
	}

	if components.Has(ComponentUploads) {
		store, err := storage.NewFactory(clients.s3, clients.presigner, logger).Create(&storage.StorageConfig{
			Type:   cfg.Import.StorageType,
			Bucket: cfg.Import.BucketName,
			Region: cfg.AWS.Region,
		})
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		container.Store = store
		deps.Store = store
	}

	if components.Has(ComponentQueue) {
		sender, err := queue.New(cfg.Import.QueueType, clients.sqs, cfg.Import.QueueURL, logger)
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to create queue sender: %w", err)
		}
		deps.Sender = sender
	}

	if components.Has(ComponentNotifications) {
		publisher, err := notify.New(cfg.Notification.Type, clients.sns, cfg.Notification.TopicARN, logger)
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to create notification publisher: %w", err)
		}
		deps.Publisher = publisher
	}

	serviceContainer, err := services.NewServiceContainer(deps)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}
	container.Services = serviceContainer

	logger.WithFields(logrus.Fields{
		"catalog_backend": cfg.Catalog.Backend,
		"storage":         cfg.Import.StorageType,
		"queue":           cfg.Import.QueueType,
		"notify":          cfg.Notification.Type,
		"components":      uint8(components),
		"mode":            config.GetDeploymentMode(),
	}).Info("Container initialized")

	return container, nil
}

func (c *Container) initCatalog(clients *awsClients) error {
	cfg := c.Config
	switch cfg.Catalog.Backend {
	case config.BackendDynamoDB:
		c.Catalog = dynamodb.NewCatalogRepository(clients.dynamo, cfg.Catalog.ProductsTableName, cfg.Catalog.StockTableName, c.Logger)
	case config.BackendSQLite:
		manager := database.NewConnectionManager(&database.ConnectionConfig{
			DatabasePath:   cfg.Database.ConnectionString,
			MigrationsPath: cfg.Database.MigrationsPath,
			MaxOpenConns:   cfg.Database.MaxOpenConns,
			MaxIdleConns:   cfg.Database.MaxIdleConns,
			Logger:         c.Logger,
		})
		if err := manager.Connect(); err != nil {
			return fmt.Errorf("failed to connect catalog database: %w", err)
		}
		c.db = manager
		c.Catalog = sqlite.NewCatalogRepository(manager.GetDB(), c.Logger)
	case config.BackendMemory, "":
		c.Catalog = memory.NewCatalogRepository()
	default:
		return fmt.Errorf("unsupported catalog backend: %s", cfg.Catalog.Backend)
	}
	return nil
}

// newAWSClients loads AWS configuration once and builds the clients the
// selected adapters use. Nothing is loaded when every selected adapter is local.
func newAWSClients(ctx context.Context, cfg *config.Config, components Component) (*awsClients, error) {
	clients := &awsClients{}

	needDynamo := components.Has(ComponentCatalog) && cfg.Catalog.Backend == config.BackendDynamoDB
	needS3 := components.Has(ComponentUploads) && cfg.Import.StorageType == string(storage.StorageTypeS3)
	needSQS := components.Has(ComponentQueue) && cfg.Import.QueueType == "sqs"
	needSNS := components.Has(ComponentNotifications) && cfg.Notification.Type == "sns"
	if !needDynamo && !needS3 && !needSQS && !needSNS {
		return clients, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.AWS.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
	}

	if needDynamo {
		clients.dynamo = awsdynamodb.NewFromConfig(awsCfg)
	}
	if needS3 {
		s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// custom endpoints (localstack) do not resolve virtual-hosted buckets
			o.UsePathStyle = cfg.AWS.Endpoint != ""
		})
		clients.s3 = s3Client
		clients.presigner = s3.NewPresignClient(s3Client)
	}
	if needSQS {
		clients.sqs = sqs.NewFromConfig(awsCfg)
	}
	if needSNS {
		clients.sns = sns.NewFromConfig(awsCfg)
	}
	return clients, nil
}

// HealthCheck reports whether the catalog store is reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.Catalog == nil {
		return fmt.Errorf("catalog not initialized")
	}
	return c.Catalog.HealthCheck(ctx)
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			return fmt.Errorf("failed to close object store: %w", err)
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}

	return nil
}
