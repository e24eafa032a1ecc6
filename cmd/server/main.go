package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"plant-shop-api/internal/config"
	"plant-shop-api/internal/handlers"
	"plant-shop-api/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		server.NewLogger(&config.Config{}).WithError(err).Fatal("Failed to load configuration")
	}
	logger := server.NewLogger(cfg)

	container, err := server.NewContainer(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(&handlers.RouterConfig{
		Services:          container.Services,
		Health:            container,
		Logger:            logger,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("port", cfg.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
