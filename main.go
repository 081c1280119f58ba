// Package main is the entry point for the campaign engine.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

func main() {
	// Optional .env for local development; absence is fine
	_ = godotenv.Load()

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		runServe()
	case "run":
		runOnce()
	case "version":
		log.Printf("campaign-engine version %s\n", version)
		os.Exit(0)
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	default:
		log.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	log.Println(`Usage: campaign-engine [command]

Commands:
  serve     Start the HTTP trigger server (default)
  run       Execute one materialisation batch run and exit
  version   Print the version
  help      Show this help

Configuration is read from config.yaml (override with ENGINE_CONFIG) and
environment variables; DATABASE_URL is required.`)
}

func configPath() string {
	if path := os.Getenv("ENGINE_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
