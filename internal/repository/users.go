// Package repository provides PostgreSQL persistence for accounts, pawn
// loans, and crop records.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// PostgresUserRepository implements account persistence against a
// PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// FindByUsername retrieves a user by exact username. It returns
// (nil, nil) when no such user exists.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user row, assigning a fresh id.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4)
	`, user.ID, user.Username, user.PasswordHash, string(user.Role))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
