package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"plant-shop-api/internal/middleware"
	"plant-shop-api/internal/services"
)

// maxBodySize bounds product creation bodies on the local server
const maxBodySize = 1 << 20

// HealthChecker reports whether the catalog store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Services *services.ServiceContainer
	Health   HealthChecker
	Logger   *logrus.Logger

	RequestsPerSecond float64
	Burst             int
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	productHandler := NewProductHandler(config.Services.CatalogService, config.Logger)
	importHandler := NewImportHandler(config.Services.ImportService, config.Logger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		if config.Health != nil {
			if err := config.Health.HealthCheck(c.Request.Context()); err != nil {
				config.Logger.WithError(err).Error("Health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "plant-shop-api",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "plant-shop-api",
			"version": "1.0.0",
		})
	})

	products := router.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", middleware.RequestSizeLimit(maxBodySize), productHandler.CreateProduct)
	}

	imports := router.Group("/import")
	imports.Use(middleware.BasicAuth(config.Services.Authorizer, config.Logger))
	{
		imports.GET("", importHandler.ImportProductsFile)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *RouterConfig) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(config.Logger))
	router.Use(middleware.CORS())

	if config.RequestsPerSecond > 0 {
		router.Use(middleware.RateLimiter(config.RequestsPerSecond, config.Burst, config.Logger))
	}

	router.Use(middleware.ErrorHandler(config.Logger))
}

// NewRouter builds a gin engine with middleware and routes installed
func NewRouter(config *RouterConfig) *gin.Engine {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	router := gin.New()
	SetupMiddleware(router, config)
	SetupRoutes(router, config)
	return router
}
