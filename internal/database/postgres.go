// Package database provides PostgreSQL access for the API service.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Fozan3060/ai-career-coach/internal/config"
)

// pingTimeout bounds the connection check at startup.
const pingTimeout = 5 * time.Second

// Connect opens and verifies a PostgreSQL connection.
func Connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	return db, nil
}
