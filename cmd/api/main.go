package main

import (
	"context"
	"log"
	"os"

	"github.com/Luuiskame/cubicular-api/internal/application/service"
	"github.com/Luuiskame/cubicular-api/internal/config"
	"github.com/Luuiskame/cubicular-api/internal/infrastructure/database"
	"github.com/Luuiskame/cubicular-api/internal/infrastructure/repository"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/handler"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/routes"
	"github.com/Luuiskame/cubicular-api/internal/presentation/render"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	formStoreRepo := repository.NewFormStoreRepository(db)

	// Initialize services
	invoiceService := service.NewInvoiceService(formStoreRepo, cfg.Invoice)

	// Hydrate the in-memory document from the form store. A load failure is
	// not fatal: the service keeps its defaults and stays usable.
	if err := invoiceService.Load(context.Background()); err != nil {
		log.Printf("Warning: failed to load saved invoice, starting from defaults: %v", err)
	}
	defer invoiceService.Flush()

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Render:   handler.NewRenderHandler(invoiceService, render.NewHTMLRenderer(), render.NewPDFRenderer()),
		Settings: handler.NewSettingsHandler(invoiceService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{Cfg: cfg})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
