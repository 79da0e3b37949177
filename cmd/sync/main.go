package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vapeworks/storefront-search/internal/commerce"
	"github.com/vapeworks/storefront-search/internal/config"
	"github.com/vapeworks/storefront-search/internal/database"
	"github.com/vapeworks/storefront-search/internal/services"
)

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Fetch the catalog without writing to the database")
	timeout := flag.Int("timeout", 300, "Overall timeout in seconds")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	client := commerce.NewClient(cfg.CommerceAPIURL, cfg.CommerceAPIToken)
	if !client.Configured() {
		log.Fatal().Msg("COMMERCE_API_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
	defer cancel()

	if *dryRun {
		products, err := client.FetchAll(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("catalog fetch failed")
		}
		log.Info().Int("products", len(products)).Msg("dry run: catalog fetched, nothing written")
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	result, err := services.NewCatalogSync(db, client).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog sync failed")
	}

	log.Info().
		Int("products", result.ProductCount).
		Int("pruned", result.PrunedCount).
		Dur("took", result.Duration).
		Msg("catalog import complete")
}
