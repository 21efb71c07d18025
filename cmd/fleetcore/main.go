// Fleet Core - Vehicle Fleet Records Service
//
// This is the main entry point for the Fleet Core application: a
// records service for vehicle owners, their cars and the repair
// history of each car, with report queries over the combined data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "fleetcore/migrations"

	"fleetcore/internal/api"
	"fleetcore/internal/car"
	"fleetcore/internal/infrastructure/config"
	"fleetcore/internal/infrastructure/database"
	"fleetcore/internal/infrastructure/logging"
	"fleetcore/internal/owner"
	"fleetcore/internal/refresh"
	"fleetcore/internal/repair"
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
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
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
	log.Info("starting Fleet Core",
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

	// Refresh broadcaster ties the registries and the API together:
	// every successful mutation publishes its topic and subscribers
	// reload their dependent caches.
	broadcaster := refresh.NewBroadcaster()
	broadcaster.SetLogger(log)

	// Initialise owner registry
	ownerRepo := owner.NewSQLiteRepository(db.DB)
	ownerRegistry := owner.NewRegistry(ownerRepo)
	ownerRegistry.SetLogger(log)
	ownerRegistry.SetBroadcaster(broadcaster)

	// Initialise car registry
	carRepo := car.NewSQLiteRepository(db.DB)
	carRegistry := car.NewRegistry(carRepo, ownerRegistry)
	carRegistry.SetLogger(log)
	carRegistry.SetBroadcaster(broadcaster)

	// Initialise repair registry
	repairRepo := repair.NewSQLiteRepository(db.DB)
	repairRegistry := repair.NewRegistry(repairRepo, carRegistry)
	repairRegistry.SetLogger(log)
	repairRegistry.SetBroadcaster(broadcaster)

	// Cars cache owner names; repairs cache car labels. Reload each
	// when its upstream changes.
	broadcaster.Subscribe(refresh.TopicOwners, carRegistry)
	broadcaster.Subscribe(refresh.TopicCars, repairRegistry)

	// Warm the caches
	if refreshErr := ownerRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading owner registry: %w", refreshErr)
	}
	if refreshErr := carRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading car registry: %w", refreshErr)
	}
	if refreshErr := repairRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading repair registry: %w", refreshErr)
	}
	log.Info("registries initialised",
		"owners", ownerRegistry.Count(),
		"cars", carRegistry.Count(),
		"repairs", repairRegistry.Count(),
	)

	// Start API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Owners:      ownerRegistry,
		Cars:        carRegistry,
		Repairs:     repairRegistry,
		Broadcaster: broadcaster,
		DB:          db,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Database

	log.Info("Fleet Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FLEETCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FLEETCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
