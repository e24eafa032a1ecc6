package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

// JSONLoader imports a catalog file into a catalog repository
type JSONLoader struct {
	repo     repositories.CatalogRepository
	logger   *logrus.Logger
	jsonPath string
}

// NewJSONLoader creates a new JSON catalog loader
func NewJSONLoader(repo repositories.CatalogRepository, jsonPath string, logger *logrus.Logger) *JSONLoader {
	if logger == nil {
		logger = logrus.New()
	}
	return &JSONLoader{
		repo:     repo,
		logger:   logger,
		jsonPath: jsonPath,
	}
}

// JSONProduct represents one entry of the catalog file. ID is optional.
type JSONProduct struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Count       int     `json:"count"`
}

// LoadResult contains the results of a load
type LoadResult struct {
	ProductsProcessed int
	ProductsSkipped   int
	Errors            []string
	Warnings          []string
}

// LoadFromJSON writes every product of the file with its stock.
// Invalid entries and failed writes are recorded and skipped.
func (l *JSONLoader) LoadFromJSON(ctx context.Context) (*LoadResult, error) {
	l.logger.WithField("path", l.jsonPath).Info("Starting JSON catalog load...")

	data, err := os.ReadFile(l.jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []JSONProduct
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	result := &LoadResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	for i, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			result.ProductsSkipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d: title is empty", i))
			continue
		}

		product := &models.Product{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			Price:       entry.Price,
		}
		if product.ID == "" {
			product.ID = uuid.New().String()
		}
		stock := models.NewStock(product, entry.Count)

		if err := l.repo.CreateProductWithStock(ctx, product, stock); err != nil {
			result.ProductsSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, entry.Title, err))
			continue
		}
		result.ProductsProcessed++
	}

	l.logger.WithFields(logrus.Fields{
		"products": result.ProductsProcessed,
		"skipped":  result.ProductsSkipped,
	}).Info("JSON catalog load completed")

	return result, nil
}
