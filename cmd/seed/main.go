package main

import (
	"context"
	"flag"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/config"
	"plant-shop-api/internal/migration"
	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
	"plant-shop-api/pkg/server"
)

type samplePlant struct {
	title       string
	description string
	price       float64
}

var samplePlants = []samplePlant{
	{"Citrus Calamondin", "Miniature citrus tree that produces fragrant flowers and fruits", 49},
	{"Fiddle Leaf Fig", "Large-leaved indoor plant that thrives in bright, indirect light", 49},
	{"Snake Plant", "Hardy and air-purifying plant with striking upright leaves", 35},
	{"Aloe Vera", "Succulent plant known for its soothing gel and low maintenance", 25},
	{"Peace Lily", "Elegant flowering plant that helps purify indoor air", 30},
	{"Pothos", "Fast-growing vine plant that thrives in various lighting conditions", 20},
	{"Monstera Deliciosa", "Tropical plant with unique split leaves, perfect for home decor", 60},
	{"Spider Plant", "Resilient and air-purifying plant with arching green leaves", 22},
	{"Citrus Tree", "Miniature citrus tree that produces fragrant flowers and fruits", 80},
	{"Parlor Palm", "Low-maintenance palm that thrives in low-light conditions", 40},
	{"Jade Plant", "A popular succulent symbolizing prosperity and good luck", 28},
}

// randomCount returns a stock count between 1 and 100
func randomCount() int {
	return rand.IntN(100) + 1
}

// seedCatalog writes every sample plant with its stock in one transaction each.
// A failed plant is logged and the rest are still written.
func seedCatalog(ctx context.Context, repo repositories.CatalogRepository, count func() int, logger *logrus.Logger) int {
	written := 0
	for _, plant := range samplePlants {
		product := models.NewProduct(plant.title, plant.description, plant.price)
		stock := models.NewStock(product, count())

		if err := repo.CreateProductWithStock(ctx, product, stock); err != nil {
			logger.WithError(err).WithField("title", plant.title).Error("Failed to add product")
			continue
		}

		logger.WithFields(logrus.Fields{
			"product_id": product.ID,
			"title":      plant.title,
			"count":      stock.Count,
		}).Info("Added product")
		written++
	}
	return written
}

func main() {
	backend := flag.String("backend", "", "Catalog backend override: dynamodb, sqlite, memory")
	file := flag.String("file", "", "JSON catalog file to load instead of the sample plants")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if *backend != "" {
		cfg.Catalog.Backend = *backend
	}

	logger := server.NewLogger(cfg)

	container, err := server.NewContainer(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	if *file != "" {
		result, err := migration.NewJSONLoader(container.Catalog, *file, logger).LoadFromJSON(context.Background())
		if err != nil {
			logger.WithError(err).Fatal("Failed to load catalog file")
		}
		for _, warning := range result.Warnings {
			logger.Warn(warning)
		}
		for _, loadErr := range result.Errors {
			logger.Error(loadErr)
		}
		logger.WithFields(logrus.Fields{
			"written": result.ProductsProcessed,
			"skipped": result.ProductsSkipped,
			"backend": cfg.Catalog.Backend,
		}).Info("Catalog file loaded")
		return
	}

	written := seedCatalog(context.Background(), container.Catalog, randomCount, logger)
	logger.WithFields(logrus.Fields{
		"written": written,
		"total":   len(samplePlants),
		"backend": cfg.Catalog.Backend,
	}).Info("Seeding finished")
}
