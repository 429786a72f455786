package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"fakturatools/cmd"
	"fakturatools/internal/config"
	"fakturatools/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		// Use default logger config if main config fails
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			logger.Fatal(err, "Failed to initialize logger")
		}
	} else {
		// Initialize logger with configuration
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			logger.Fatal(err, "Failed to initialize logger")
		}
	}

	log := logger.WithComponent("main")
	log.Info().Msg("Starting Fakturatools")

	cmd.Execute()

	log.Info().Msg("Fakturatools shutdown")
	os.Exit(0)
}
