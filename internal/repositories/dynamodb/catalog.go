package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the catalog
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *awsdynamodb.ScanInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *awsdynamodb.TransactWriteItemsInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *awsdynamodb.DescribeTableInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DescribeTableOutput, error)
}

var _ DynamoDBAPI = (*awsdynamodb.Client)(nil)

// CatalogRepository stores products and stocks in two DynamoDB tables
type CatalogRepository struct {
	client        DynamoDBAPI
	productsTable string
	stocksTable   string
	logger        *logrus.Logger
}

// NewCatalogRepository creates a DynamoDB-backed catalog
func NewCatalogRepository(client DynamoDBAPI, productsTable, stocksTable string, logger *logrus.Logger) *CatalogRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &CatalogRepository{
		client:        client,
		productsTable: productsTable,
		stocksTable:   stocksTable,
		logger:        logger,
	}
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// ListProducts scans the products table, following pagination
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	items, err := r.scanAll(ctx, r.productsTable)
	if err != nil {
		return nil, repositories.NewRepositoryError("list", "product", "", err)
	}

	products := make([]*models.Product, 0, len(items))
	for _, item := range items {
		product, err := productFromItem(item)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "product", "", err)
		}
		products = append(products, product)
	}
	return products, nil
}

// ListStocks scans the stocks table, following pagination
func (r *CatalogRepository) ListStocks(ctx context.Context) ([]*models.Stock, error) {
	items, err := r.scanAll(ctx, r.stocksTable)
	if err != nil {
		return nil, repositories.NewRepositoryError("list", "stock", "", err)
	}

	stocks := make([]*models.Stock, 0, len(items))
	for _, item := range items {
		stock, err := stockFromItem(item)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "stock", "", err)
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// GetProduct fetches a product by its id key
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	out, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.productsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, repositories.NewRepositoryError("get", "product", id, err)
	}
	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError("product", id)
	}

	product, err := productFromItem(out.Item)
	if err != nil {
		return nil, repositories.NewRepositoryError("get", "product", id, err)
	}
	return product, nil
}

// GetStock fetches a stock record by its product_id key
func (r *CatalogRepository) GetStock(ctx context.Context, productID string) (*models.Stock, error) {
	out, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.stocksTable),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, repositories.NewRepositoryError("get", "stock", productID, err)
	}
	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError("stock", productID)
	}

	stock, err := stockFromItem(out.Item)
	if err != nil {
		return nil, repositories.NewRepositoryError("get", "stock", productID, err)
	}
	return stock, nil
}

// CreateProductWithStock writes both items with a single TransactWriteItems call
func (r *CatalogRepository) CreateProductWithStock(ctx context.Context, product *models.Product, stock *models.Stock) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}
	if err := stock.Validate(); err != nil {
		return repositories.ValidationError("stock", stock.ProductID, err)
	}
	if stock.ProductID != product.ID {
		return repositories.ValidationError("stock", stock.ProductID, errors.New("stock does not belong to product"))
	}

	_, err := r.client.TransactWriteItems(ctx, &awsdynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.productsTable),
					Item:      ProductItem(product),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(r.stocksTable),
					Item:      StockItem(stock),
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			r.logger.WithFields(logrus.Fields{
				"product_id": product.ID,
				"reasons":    cancellationReasons(canceled),
			}).Warn("Product transaction canceled")
			return repositories.TransactionCanceledError(product.ID, err)
		}
		return repositories.NewRepositoryError("create", "product", product.ID, err)
	}

	r.logger.WithField("product_id", product.ID).Debug("Product and stock written")
	return nil
}

// HealthCheck describes both tables
func (r *CatalogRepository) HealthCheck(ctx context.Context) error {
	for _, table := range []string{r.productsTable, r.stocksTable} {
		if _, err := r.client.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{TableName: aws.String(table)}); err != nil {
			return repositories.ConnectionError(fmt.Errorf("describe %s: %w", table, err))
		}
	}
	return nil
}

func (r *CatalogRepository) scanAll(ctx context.Context, table string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &awsdynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, out.Items...)

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ProductItem encodes a product as a products-table item
func ProductItem(product *models.Product) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":          &types.AttributeValueMemberS{Value: product.ID},
		"title":       &types.AttributeValueMemberS{Value: product.Title},
		"description": &types.AttributeValueMemberS{Value: product.Description},
		"price":       &types.AttributeValueMemberN{Value: models.FormatPrice(product.Price)},
	}
}

// StockItem encodes a stock record as a stocks-table item
func StockItem(stock *models.Stock) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"product_id": &types.AttributeValueMemberS{Value: stock.ProductID},
		"count":      &types.AttributeValueMemberN{Value: strconv.Itoa(stock.Count)},
	}
}

func productFromItem(item map[string]types.AttributeValue) (*models.Product, error) {
	id, err := stringAttr(item, "id")
	if err != nil {
		return nil, err
	}

	product := &models.Product{ID: id}
	// title and description are optional on read; older seed data may lack them
	product.Title, _ = stringAttr(item, "title")
	product.Description, _ = stringAttr(item, "description")

	if raw, ok := item["price"].(*types.AttributeValueMemberN); ok {
		price, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid price %q: %w", id, raw.Value, err)
		}
		product.Price = price
	}
	return product, nil
}

func stockFromItem(item map[string]types.AttributeValue) (*models.Stock, error) {
	productID, err := stringAttr(item, "product_id")
	if err != nil {
		return nil, err
	}

	stock := &models.Stock{ProductID: productID}
	if raw, ok := item["count"].(*types.AttributeValueMemberN); ok {
		count, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("stock %s: invalid count %q: %w", productID, raw.Value, err)
		}
		stock.Count = int(count)
	}
	return stock, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	value, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %s missing or not a string", name)
	}
	return value.Value, nil
}

func cancellationReasons(err *types.TransactionCanceledException) []string {
	reasons := make([]string, 0, len(err.CancellationReasons))
	for _, reason := range err.CancellationReasons {
		reasons = append(reasons, aws.ToString(reason.Code))
	}
	return reasons
}
