package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsgram/internal/config"
	"newsgram/internal/database"
)

// SetupDatabase opens the PostgreSQL connection pool from config.
func SetupDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, connErr := database.NewPostgresConnection(cfg.Database)
	if connErr != nil {
		return nil, fmt.Errorf("database connection: %w", connErr)
	}

	return db, nil
}
