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
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/app"
	"catalog-service/internal/config"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
)

// @title Catalog Import API
// @version 1.0.0
// @description Spreadsheet import pipeline for the product catalog: validation, classification, grouping and batched persistence

// @contact.name Catalog API Support
// @contact.url http://www.example.com/support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	logger := app.NewLogger(cfg)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize service")
	}
	defer a.Close()

	importHandler := handlers.NewImportHandler(a.Imports, cfg.DefaultSchema, cfg.MaxBatchSize, logger)
	healthHandler := handlers.NewHealthHandler(a.DB)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(os.Getenv("CORS_ALLOWED_ORIGINS")))

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)

	v1 := router.Group("/api/v1")
	{
		imports := v1.Group("/imports")
		{
			imports.GET("/template", importHandler.GetImportTemplate)
			imports.POST("", importHandler.ImportProducts)
			imports.GET("/latest", importHandler.GetLatestImport)
			imports.GET("/regroup-preview", importHandler.PreviewRegroup)
			imports.DELETE("/excel", importHandler.CleanupExcelImports)
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("port", cfg.Port).Info("Catalog service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-quit
	logger.Info("Shutting down catalog-service...")

	// imports in flight get the full chunk timeout to finish their current chunks
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ChunkTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Catalog service stopped")
}
