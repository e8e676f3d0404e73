// Package bootstrap handles application initialization and lifecycle
// management for the newsgram service.
package bootstrap

import (
	"context"
	"fmt"

	"newsgram/internal/logger"
)

// Start initializes and runs the newsgram HTTP service.
func Start(ctx context.Context, configPath string) error {
	cfg, configErr := LoadConfig(configPath)
	if configErr != nil {
		return fmt.Errorf("config: %w", configErr)
	}

	log, logErr := CreateLogger(cfg)
	if logErr != nil {
		return fmt.Errorf("logger: %w", logErr)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting newsgram service",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.String("env", cfg.Service.Env),
		logger.Int("port", cfg.Service.Port),
	)

	db, dbErr := SetupDatabase(cfg)
	if dbErr != nil {
		return fmt.Errorf("database: %w", dbErr)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()
	log.Info("Database connection established")

	srv := SetupHTTPServer(cfg, db, log)

	if runErr := srv.Run(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server: %w", runErr)
	}

	log.Info("Newsgram service stopped")
	return nil
}
