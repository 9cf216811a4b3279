package database

import (
	"context"
	"database/sql"
	"fmt"
)

// UserRepository manages the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureExists inserts the user unless a row with the same email already
// exists. Returns true when a new row was created.
func (r *UserRepository) EnsureExists(ctx context.Context, name, email string) (bool, error) {
	query := `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, name, email)
	if err != nil {
		return false, fmt.Errorf("ensure user exists: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get affected rows: %w", err)
	}
	return rows > 0, nil
}
