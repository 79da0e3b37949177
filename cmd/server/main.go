package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vapeworks/storefront-search/internal/commerce"
	"github.com/vapeworks/storefront-search/internal/config"
	"github.com/vapeworks/storefront-search/internal/database"
	"github.com/vapeworks/storefront-search/internal/handlers"
	"github.com/vapeworks/storefront-search/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Commerce backend client and catalog sync
	client := commerce.NewClient(cfg.CommerceAPIURL, cfg.CommerceAPIToken)
	catalogSync := services.NewCatalogSync(db, client)

	// Keep the catalog fresh in the background when configured
	if client.Configured() && cfg.SyncInterval > 0 {
		go catalogSync.Start(context.Background(), cfg.SyncInterval)
	} else if !client.Configured() {
		log.Warn().Msg("COMMERCE_API_URL not set, serving previously synced catalog only")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, catalogSync)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Faceted search
	api.Get("/search", h.Search)

	// Product routes
	products := api.Group("/products")
	products.Get("/", h.ListProducts)
	products.Get("/:handle", h.GetProduct)

	// Catalog routes
	catalog := api.Group("/catalog")
	catalog.Get("/stats", h.GetCatalogStats)
	catalog.Post("/sync", h.TriggerSync)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
