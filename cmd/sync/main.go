package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"planhat-usage-sync/internal/config"
	"planhat-usage-sync/internal/pipeline"
	"planhat-usage-sync/internal/planhat"
	"planhat-usage-sync/internal/storage/blob"
	"planhat-usage-sync/internal/store"
)

// One-shot entrypoint: run a single sync and exit. The exit code mirrors
// the run outcome so a cron-like invoker can alert on failure.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ Env var configuration error: %v", err)
		os.Exit(1)
	}

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Printf("❌ Failed to open run store: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	blobStore, err := blob.New(ctx, cfg.Storage, cfg.BucketName)
	if err != nil {
		log.Printf("❌ Failed to init object storage: %v", err)
		os.Exit(1)
	}

	client := planhat.NewClient(cfg.Planhat.BaseURL, cfg.Planhat.AnalyticsURL, cfg.APIToken)

	runID, message, code := pipeline.Execute(ctx, pipeline.Deps{
		Config: cfg,
		Blob:   blobStore,
		CRM:    client,
	})

	log.Printf("Run %s finished: %s (%d)", runID, message, code)
	if code != 200 {
		os.Exit(1)
	}
}
