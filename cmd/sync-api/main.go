package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	_ "planhat-usage-sync/docs" // registers the generated swagger spec
	"planhat-usage-sync/internal/api"
	"planhat-usage-sync/internal/config"
	"planhat-usage-sync/internal/pipeline"
	"planhat-usage-sync/internal/planhat"
	"planhat-usage-sync/internal/storage/blob"
	"planhat-usage-sync/internal/store"
	"planhat-usage-sync/pkg/router"
)

// @title Planhat Usage Sync API
// @version 1.0
// @description Triggers and inspects billing usage sync runs.
// @BasePath /api/v1
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Env var configuration error: %v", err)
	}

	// Init run store
	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("❌ Failed to open run store: %v", err)
	}

	blobStore, err := blob.New(context.Background(), cfg.Storage, cfg.BucketName)
	if err != nil {
		log.Fatalf("❌ Failed to init object storage: %v", err)
	}

	client := planhat.NewClient(cfg.Planhat.BaseURL, cfg.Planhat.AnalyticsURL, cfg.APIToken)

	// Create router and register sync routes
	r := router.New()
	api.RegisterRoutes(r, pipeline.Deps{
		Config: cfg,
		Blob:   blobStore,
		CRM:    client,
	})

	// Start server
	r.Start(cfg.ListenAddr)
}
