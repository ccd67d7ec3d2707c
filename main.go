package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/epeers/holdings/config"
	_ "github.com/epeers/holdings/docs"
	"github.com/epeers/holdings/internal/app"
	"github.com/epeers/holdings/internal/handlers"
)

// @title 13F Holdings Explorer API
// @version 1.0
// @description Search institutional 13F holdings and enrich issuers with tickers and sectors.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	app.SetLogLevel(cfg.LogLevel)

	// Create context for initialization
	ctx := context.Background()

	// Load dataset and build the lookup indices
	engine, err := app.LoadEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize search engine: %v", err)
	}

	// Initialize ticker cache and external clients
	enrichSvc, closeStore, err := app.NewEnrichment(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize enrichment: %v", err)
	}
	defer closeStore()

	// Initialize handlers
	holdingsHandler := handlers.NewHoldingsHandler(engine)
	marketHandler := handlers.NewMarketHandler(engine)
	enrichHandler := handlers.NewEnrichmentHandler(enrichSvc)

	// Setup Gin router
	router := gin.Default()
	handlers.RegisterRoutes(router, holdingsHandler, marketHandler, enrichHandler)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	log.Info("Server exited")
}
