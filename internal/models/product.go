package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Product represents a catalog product
type Product struct {
	ID          string  `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
}

// Stock holds the available count for exactly one product
type Stock struct {
	ProductID string `json:"product_id" db:"product_id"`
	Count     int    `json:"count" db:"count"`
}

// ProductWithStock is a product joined with its stock count
type ProductWithStock struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Count       int     `json:"count"`
}

// NewProduct creates a new product with a generated ID
func NewProduct(title, description string, price float64) *Product {
	return &Product{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Price:       price,
	}
}

// NewStock creates the stock record that pairs with the given product
func NewStock(product *Product, count int) *Stock {
	return &Stock{
		ProductID: product.ID,
		Count:     count,
	}
}

// Validate validates the product data
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product ID is required")
	}

	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}

	return nil
}

// Validate validates the stock data
func (s *Stock) Validate() error {
	if strings.TrimSpace(s.ProductID) == "" {
		return fmt.Errorf("stock product ID is required")
	}

	if s.Count < 0 {
		return fmt.Errorf("stock count cannot be negative")
	}

	return nil
}

// JoinStock merges a product with its stock; a nil stock counts as zero
func JoinStock(product *Product, stock *Stock) *ProductWithStock {
	joined := &ProductWithStock{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
	}
	if stock != nil {
		joined.Count = stock.Count
	}
	return joined
}

// Split returns the product and stock records that make up the joined view
func (p *ProductWithStock) Split() (*Product, *Stock) {
	product := &Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
	}
	return product, &Stock{ProductID: p.ID, Count: p.Count}
}

// FormatPrice renders a price the way numeric attributes are stored and published
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
