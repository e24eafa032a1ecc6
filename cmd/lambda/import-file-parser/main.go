package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"plant-shop-api/internal/handlers"
	"plant-shop-api/pkg/lambda"
	"plant-shop-api/pkg/server"
)

// Errors are returned to the platform so the object-created event is redelivered.
func handler(ctx context.Context, event events.S3Event) error {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return err
	}

	importHandler := handlers.NewImportHandler(container.Services.ImportService, container.Logger)
	return importHandler.HandleS3Event(ctx, event)
}

func init() {
	lambda.GetConnectionManager().Initialize(server.ComponentUploads | server.ComponentQueue)
}

func main() {
	awslambda.StartWithOptions(handler, awslambda.WithEnableSIGTERM(lambda.Shutdown))
}
