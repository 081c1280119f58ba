package main

import (
	"context"
	"log"

	"github.com/cheersai/campaign-engine/internal/app"
)

// runServe starts the HTTP trigger server and blocks until shutdown.
func runServe() {
	engine, err := app.New(app.Options{
		ConfigPath: configPath(),
		Version:    version,
	})
	if err != nil {
		log.Fatalf("Failed to start campaign engine: %v", err)
	}
	defer engine.Close()

	if err := engine.Serve(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
