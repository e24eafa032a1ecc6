package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-shop-api/internal/adapters/notify"
	"plant-shop-api/internal/adapters/queue"
	"plant-shop-api/internal/adapters/storage"
	"plant-shop-api/internal/models"
	"plant-shop-api/internal/repositories"
	"plant-shop-api/internal/repositories/memory"
	"plant-shop-api/internal/services"
	"plant-shop-api/pkg/lambda"
)

type fixture struct {
	repo      *memory.CatalogRepository
	store     *storage.MockObjectStore
	sender    *queue.MockSender
	publisher *notify.MockPublisher
	services  *services.ServiceContainer
	router    *gin.Engine
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		repo:      memory.NewCatalogRepository(),
		store:     storage.NewMockObjectStore("import-bucket"),
		sender:    queue.NewMockSender(),
		publisher: notify.NewMockPublisher(),
	}

	container, err := services.NewServiceContainer(&services.Dependencies{
		Catalog:     f.repo,
		Store:       f.store,
		Sender:      f.sender,
		Publisher:   f.publisher,
		Credentials: map[string]string{"admin": "TEST_PASSWORD"},
		Import:      services.DefaultImportConfig(),
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	f.services = container

	f.router = NewRouter(&RouterConfig{
		Services: container,
		Health:   f.repo,
		Logger:   quietLogger(),
	})
	return f
}

func (f *fixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seed(t *testing.T, id string, count int) {
	t.Helper()
	require.NoError(t, f.repo.CreateProductWithStock(context.Background(),
		&models.Product{ID: id, Title: "Monstera", Description: "Large leaves", Price: 25.5},
		&models.Stock{ProductID: id, Count: count}))
}

func TestProductRoutes(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 4)

	t.Run("list", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/products", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

		var products []models.ProductWithStock
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.Equal(t, models.ProductWithStock{ID: "p1", Title: "Monstera", Description: "Large leaves", Price: 25.5, Count: 4}, products[0])
	})

	t.Run("get missing", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/products/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Product not found"}`, rec.Body.String())
	})

	t.Run("create then get", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/products",
			`{"title":"Snake Plant","description":"Hardy","price":19.99,"count":12}`,
			map[string]string{"Content-Type": "application/json"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created struct {
			Message string                  `json:"message"`
			Product models.ProductWithStock `json:"product"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, MessageProductCreated, created.Message)
		require.NotEmpty(t, created.Product.ID)

		rec = f.do(http.MethodGet, "/products/"+created.Product.ID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.ProductWithStock
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, created.Product, got)
	})

	t.Run("create validation", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/products", `{"title":"x","price":1,"count":1}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing required field: description"}`, rec.Body.String())
	})

	t.Run("create transaction canceled", func(t *testing.T) {
		f.repo.FailNextCreate = repositories.TransactionCanceledError("p2", errors.New("ConditionalCheckFailed"))
		rec := f.do(http.MethodPost, "/products", `{"title":"x","description":"y","price":1,"count":1}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Transaction failed: Potential stock constraint violation."}`, rec.Body.String())
	})
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestImportRoute(t *testing.T) {
	f := newFixture(t)
	valid := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:TEST_PASSWORD"))
	wrong := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:nope"))

	tests := []struct {
		name   string
		target string
		auth   string
		status int
	}{
		{"no credentials", "/import?name=plants.csv", "", http.StatusUnauthorized},
		{"wrong password", "/import?name=plants.csv", wrong, http.StatusForbidden},
		{"malformed header", "/import?name=plants.csv", "Bearer abc", http.StatusForbidden},
		{"missing name", "/import", valid, http.StatusBadRequest},
		{"allowed", "/import?name=plants.csv", valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.auth != "" {
				headers["Authorization"] = tt.auth
			}
			rec := f.do(http.MethodGet, tt.target, "", headers)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := f.do(http.MethodGet, "/import?name=plants.csv", "", map[string]string{"Authorization": valid})
	assert.Contains(t, rec.Body.String(), "/uploaded/plants.csv")
	assert.Equal(t, "GET,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization,Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestProductHandler_Lambda(t *testing.T) {
	f := newFixture(t)
	handler := NewProductHandler(f.services.CatalogService, quietLogger())
	ctx := context.Background()

	resp, err := handler.HandleGet(ctx, lambda.FromProxyRequest(events.APIGatewayProxyRequest{HTTPMethod: "GET"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Product ID is required"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	resp, err = handler.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"title":"t","description":"d","price":"5","count":1}`)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Field 'price' must be of type number"}`, string(resp.Body))

	f.repo.FailNextCreate = errors.New("ValidationException: table not found")
	resp, err = handler.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"title":"t","description":"d","price":5,"count":1}`)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Database error: ValidationException: table not found"}`, string(resp.Body))

	resp, err = handler.HandleList(ctx, &lambda.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(resp.Body))
}

func TestImportHandler_Lambda(t *testing.T) {
	f := newFixture(t)
	handler := NewImportHandler(f.services.ImportService, quietLogger())

	resp, err := handler.HandleImport(context.Background(), &lambda.Request{QueryParams: map[string]string{"name": "a.csv"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(resp.Body), "https://import-bucket.s3.mock.local/uploaded/a.csv"))

	f.store.FailOn["PresignPut"] = errors.New("signing credentials expired")
	resp, err = handler.HandleImport(context.Background(), &lambda.Request{QueryParams: map[string]string{"name": "a.csv"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "signing credentials expired")
}

func TestImportHandler_S3Event(t *testing.T) {
	f := newFixture(t)
	handler := NewImportHandler(f.services.ImportService, quietLogger())
	ctx := context.Background()

	require.NoError(t, f.store.Store(ctx, "uploaded/my plants.csv", []byte("id,title\n1,Aloe\n2,Fern\n"), nil))

	event := events.S3Event{Records: []events.S3EventRecord{{
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: "import-bucket"},
			Object: events.S3Object{Key: "uploaded/my+plants.csv"},
		},
	}}}

	require.NoError(t, handler.HandleS3Event(ctx, event))
	assert.Len(t, f.sender.Messages(), 2)
	assert.True(t, f.store.HasFile("parsed/my plants.csv"))
	assert.False(t, f.store.HasFile("uploaded/my plants.csv"))

	missing := events.S3Event{Records: []events.S3EventRecord{{
		S3: events.S3Entity{Object: events.S3Object{Key: "uploaded/ghost.csv"}},
	}}}
	assert.Error(t, handler.HandleS3Event(ctx, missing))
}

func TestBatchHandler_SQSEvent(t *testing.T) {
	f := newFixture(t)
	handler := NewBatchHandler(f.services.BatchProcessor, quietLogger())

	resp, err := handler.HandleSQSEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "1", Body: `{"id":"test-id","title":"Test Product","description":"Test Description","price":100,"count":5}`},
	}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Products added successfully"}`, string(resp.Body))
	assert.Len(t, f.publisher.Messages(), 1)

	resp, err = handler.HandleSQSEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "2", Body: `{"id":"x","title":"t","price":1,"count":1}`},
	}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid input: description is missing"}`, string(resp.Body))

	resp, err = handler.HandleSQSEvent(context.Background(), events.SQSEvent{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"No records to process"}`, string(resp.Body))
}

func TestAuthHandler(t *testing.T) {
	auth := NewAuthHandler(services.NewAuthorizer(map[string]string{"admin": "TEST_PASSWORD"}, quietLogger()))
	const arn = "arn:aws:execute-api:eu-west-1:123456789012:abc/dev/GET/import"

	resp, err := auth.HandleAuthorize(context.Background(), events.APIGatewayCustomAuthorizerRequest{
		Type:               "TOKEN",
		AuthorizationToken: "Basic " + base64.StdEncoding.EncodeToString([]byte("admin=TEST_PASSWORD")),
		MethodArn:          arn,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.PrincipalID)
	assert.Equal(t, PolicyVersion, resp.PolicyDocument.Version)
	require.Len(t, resp.PolicyDocument.Statement, 1)
	assert.Equal(t, "Allow", resp.PolicyDocument.Statement[0].Effect)
	assert.Equal(t, []string{"execute-api:Invoke"}, resp.PolicyDocument.Statement[0].Action)
	assert.Equal(t, []string{arn}, resp.PolicyDocument.Statement[0].Resource)

	resp, err = auth.HandleAuthorize(context.Background(), events.APIGatewayCustomAuthorizerRequest{
		AuthorizationToken: "garbage",
		MethodArn:          arn,
	})
	require.NoError(t, err)
	assert.Equal(t, services.AnonymousPrincipal, resp.PrincipalID)
	assert.Equal(t, "Deny", resp.PolicyDocument.Statement[0].Effect)
}
