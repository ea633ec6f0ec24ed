// PlantBox Core - Smart Plant Backend
//
// This is the main entry point for the PlantBox Core application, the
// backend API consumed by the Oasis mobile app. It serves a single
// action-multiplexed HTTP endpoint for account management, device (box)
// management, watering commands, and sensor log retrieval, persisting
// everything in SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/oasisapp/plantbox-core/migrations"

	"github.com/oasisapp/plantbox-core/internal/api"
	"github.com/oasisapp/plantbox-core/internal/box"
	"github.com/oasisapp/plantbox-core/internal/infrastructure/config"
	"github.com/oasisapp/plantbox-core/internal/infrastructure/database"
	"github.com/oasisapp/plantbox-core/internal/infrastructure/logging"
	"github.com/oasisapp/plantbox-core/internal/user"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting PlantBox Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Wire repositories
	userRepo := user.NewRepository(db.DB)
	boxRepo := box.NewRepository(db.DB)

	// Start API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		DB:      db,
		Users:   userRepo,
		Boxes:   boxRepo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"endpoint", cfg.API.Endpoint,
	)

	// Verify connections are healthy
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("PlantBox Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PLANTBOX_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PLANTBOX_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
