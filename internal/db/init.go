// Package db opens the PostgreSQL connection and applies the schema.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// The repayment and expense ledgers live as JSONB arrays on the parent
// row: the parent record is the sole transactional boundary, and entries
// have no identity outside it.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash BYTEA NOT NULL,
    role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pawn_loans (
    id TEXT PRIMARY KEY,
    customer_name TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    address TEXT NOT NULL,
    collateral_type TEXT NOT NULL,
    collateral_details JSONB NOT NULL DEFAULT '{}',
    loan_amount DOUBLE PRECISION NOT NULL,
    interest_rate DOUBLE PRECISION NOT NULL,
    start_date TIMESTAMPTZ NOT NULL,
    due_date TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL,
    repayments JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS crop_records (
    id TEXT PRIMARY KEY,
    crop_type TEXT NOT NULL,
    location TEXT NOT NULL,
    area_size JSONB NOT NULL,
    planting_date TIMESTAMPTZ NOT NULL,
    expected_harvest_date TIMESTAMPTZ NOT NULL,
    expected_yield JSONB,
    actual_yield JSONB,
    status TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    expenses JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`

// InitPostgres opens a connection with the given DSN, verifies it, and
// applies the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
