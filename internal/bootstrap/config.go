package bootstrap

import (
	"fmt"
	"os"

	"newsgram/internal/config"
	"newsgram/internal/logger"
)

// configPathEnv overrides the default config file location.
const configPathEnv = "NEWSGRAM_CONFIG"

// LoadConfig loads and validates the service configuration.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		path = "config.yml"
	}

	cfg, loadErr := config.Load(path)
	if loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}

	return cfg, nil
}

// CreateLogger creates the structured logger for the service.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, logErr := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if logErr != nil {
		return nil, fmt.Errorf("create logger: %w", logErr)
	}

	return log.With(logger.String("service", cfg.Service.Name)), nil
}
