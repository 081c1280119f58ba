package main

import (
	"context"
	"log"

	"github.com/cheersai/campaign-engine/internal/app"
)

// runOnce executes a single materialisation batch run and exits. Intended
// for cron-style scheduling alongside the HTTP trigger.
func runOnce() {
	engine, err := app.New(app.Options{
		ConfigPath: configPath(),
		Version:    version,
	})
	if err != nil {
		log.Fatalf("Failed to start campaign engine: %v", err)
	}
	defer engine.Close()

	created, err := engine.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	log.Printf("Batch run complete: %d content items created", created)
}
