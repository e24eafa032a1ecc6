package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"plant-shop-api/internal/handlers"
	"plant-shop-api/pkg/lambda"
	"plant-shop-api/pkg/server"
)

// BatchResponse is the summary returned for each queue batch
type BatchResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func handler(ctx context.Context, event events.SQSEvent) (BatchResponse, error) {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return BatchResponse{}, err
	}

	batchHandler := handlers.NewBatchHandler(container.Services.BatchProcessor, container.Logger)

	resp, err := batchHandler.HandleSQSEvent(ctx, event)
	if err != nil {
		return BatchResponse{}, err
	}
	return BatchResponse{StatusCode: resp.StatusCode, Body: string(resp.Body)}, nil
}

func init() {
	lambda.GetConnectionManager().Initialize(server.ComponentCatalog | server.ComponentNotifications)
}

func main() {
	awslambda.StartWithOptions(handler, awslambda.WithEnableSIGTERM(lambda.Shutdown))
}
