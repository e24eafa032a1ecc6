package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/services"
	"plant-shop-api/pkg/lambda"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	catalogService services.CatalogService
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService services.CatalogService, logger *logrus.Logger) *ProductHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// @Summary List products
// @Description List every product joined with its stock count
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductWithStock
// @Failure 500 {object} MessageResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	h.list(c.Request.Context()).write(c)
}

// @Summary Get a product
// @Description Get one product joined with its stock count
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductWithStock
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	h.get(c.Request.Context(), c.Param("id")).write(c)
}

// @Summary Create a product
// @Description Create a product and its stock record in one transaction
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201 {object} CreateProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		jsonResult(http.StatusBadRequest, catalogHeaders(), ErrorResponse{Error: "Invalid request body"}).write(c)
		return
	}
	h.create(c.Request.Context(), body).write(c)
}

// HandleList serves GET /products
func (h *ProductHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.list(ctx).toLambda(), nil
}

// HandleGet serves GET /products/{id}
func (h *ProductHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.get(ctx, req.PathParams["id"]).toLambda(), nil
}

// HandleCreate serves POST /products
func (h *ProductHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.create(ctx, req.Body).toLambda(), nil
}

func (h *ProductHandler) list(ctx context.Context) *result {
	products, err := h.catalogService.ListProducts(ctx)
	if err != nil {
		return jsonResult(statusFor(err), catalogHeaders(), MessageResponse{Message: services.PublicMessage(err)})
	}
	return jsonResult(http.StatusOK, catalogHeaders(), products)
}

func (h *ProductHandler) get(ctx context.Context, id string) *result {
	product, err := h.catalogService.GetProduct(ctx, id)
	if err != nil {
		return jsonResult(statusFor(err), catalogHeaders(), MessageResponse{Message: services.PublicMessage(err)})
	}
	return jsonResult(http.StatusOK, catalogHeaders(), product)
}

func (h *ProductHandler) create(ctx context.Context, body []byte) *result {
	product, err := h.catalogService.CreateProduct(ctx, body)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("Product creation failed")
		}
		return jsonResult(status, catalogHeaders(), ErrorResponse{Error: services.PublicMessage(err)})
	}
	return jsonResult(http.StatusCreated, catalogHeaders(), CreateProductResponse{
		Message: MessageProductCreated,
		Product: product,
	})
}
