package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"plant-shop-api/internal/handlers"
	"plant-shop-api/pkg/lambda"
	"plant-shop-api/pkg/server"
)

var jsonHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders,
			Body:       `{"message": "Internal server error"}`,
		}, nil
	}

	req := lambda.FromProxyRequest(event)
	productHandler := handlers.NewProductHandler(container.Services.CatalogService, container.Logger)

	var resp *lambda.Response

	switch {
	case req.Method == http.MethodPost && req.Path == "/products":
		resp, err = productHandler.HandleCreate(ctx, req)
	case req.Method == http.MethodGet && req.PathParams["id"] != "":
		resp, err = productHandler.HandleGet(ctx, req)
	case req.Method == http.MethodGet && req.Path == "/products":
		resp, err = productHandler.HandleList(ctx, req)
	case req.Method == http.MethodGet:
		// /products/{id} routed here without a usable id
		resp, err = productHandler.HandleGet(ctx, req)
	default:
		resp = &lambda.Response{
			StatusCode: http.StatusNotFound,
			Headers:    jsonHeaders,
			Body:       []byte(`{"message": "Not found"}`),
		}
	}

	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders,
			Body:       `{"message": "Internal server error"}`,
		}, nil
	}

	return resp.ToProxyResponse(), nil
}

func init() {
	lambda.GetConnectionManager().Initialize(server.ComponentCatalog)
}

func main() {
	awslambda.StartWithOptions(handler, awslambda.WithEnableSIGTERM(lambda.Shutdown))
}
