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

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			Body:       `{"error": "Internal server error"}`,
		}, nil
	}

	importHandler := handlers.NewImportHandler(container.Services.ImportService, container.Logger)

	resp, err := importHandler.HandleImport(ctx, lambda.FromProxyRequest(event))
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return resp.ToProxyResponse(), nil
}

func init() {
	lambda.GetConnectionManager().Initialize(server.ComponentUploads)
}

func main() {
	awslambda.StartWithOptions(handler, awslambda.WithEnableSIGTERM(lambda.Shutdown))
}
