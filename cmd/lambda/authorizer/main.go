package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"plant-shop-api/internal/config"
	"plant-shop-api/internal/handlers"
	"plant-shop-api/internal/services"
	"plant-shop-api/pkg/server"
)

var authHandler *handlers.AuthHandler

// The authorizer only needs the credential map, so it skips the full container.
func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	logger := server.NewLogger(cfg)
	logger.WithField("users", len(cfg.Auth.Credentials)).Debug("Authorizer configured")

	authHandler = handlers.NewAuthHandler(services.NewAuthorizer(cfg.Auth.Credentials, logger))
}

func handler(ctx context.Context, event events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	return authHandler.HandleAuthorize(ctx, event)
}

func main() {
	awslambda.Start(handler)
}
