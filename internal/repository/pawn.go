package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// PostgresLoanRepository implements pawn loan persistence against a
// PostgreSQL database. The repayment ledger is a JSONB column on the loan
// row, so every write replaces the whole ledger with the parent record.
// Two concurrent appends to the same loan are not serialized; the last
// write wins.
type PostgresLoanRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresLoanRepository creates a new PostgresLoanRepository with the
// given database connection.
func NewPostgresLoanRepository(db *sql.DB) *PostgresLoanRepository {
	return &PostgresLoanRepository{DB: db}
}

const loanColumns = `id, customer_name, phone_number, address, collateral_type,
	collateral_details, loan_amount, interest_rate, start_date, due_date,
	status, repayments, created_at, updated_at`

// Create inserts a new loan row, assigning a fresh id and timestamps.
func (r *PostgresLoanRepository) Create(ctx context.Context, loan *models.PawnLoan) error {
	loan.ID = uuid.NewString()
	now := time.Now().UTC()
	loan.CreatedAt = now
	loan.UpdatedAt = now

	details, err := json.Marshal(loan.CollateralDetails)
	if err != nil {
		return fmt.Errorf("marshal collateral details: %w", err)
	}
	repayments, err := json.Marshal(loan.Repayments)
	if err != nil {
		return fmt.Errorf("marshal repayments: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO pawn_loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, loan.ID, loan.CustomerName, loan.PhoneNumber, loan.Address,
		string(loan.CollateralType), details, loan.LoanAmount, loan.InterestRate,
		loan.StartDate, loan.DueDate, string(loan.Status), repayments,
		loan.CreatedAt, loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

// List returns all loans, newest first.
func (r *PostgresLoanRepository) List(ctx context.Context) ([]models.PawnLoan, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+loanColumns+` FROM pawn_loans ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.PawnLoan
	for rows.Next() {
		loan, err := scanLoan(rows.Scan)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// FindByID returns the loan with the given id, or (nil, nil) when absent.
func (r *PostgresLoanRepository) FindByID(ctx context.Context, id string) (*models.PawnLoan, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+loanColumns+` FROM pawn_loans WHERE id = $1
	`, id)
	loan, err := scanLoan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Update overwrites all mutable columns of the loan row, repayment ledger
// included, and refreshes updated_at.
func (r *PostgresLoanRepository) Update(ctx context.Context, loan *models.PawnLoan) error {
	loan.UpdatedAt = time.Now().UTC()

	details, err := json.Marshal(loan.CollateralDetails)
	if err != nil {
		return fmt.Errorf("marshal collateral details: %w", err)
	}
	repayments, err := json.Marshal(loan.Repayments)
	if err != nil {
		return fmt.Errorf("marshal repayments: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		UPDATE pawn_loans SET
			customer_name = $2, phone_number = $3, address = $4,
			collateral_type = $5, collateral_details = $6, loan_amount = $7,
			interest_rate = $8, start_date = $9, due_date = $10, status = $11,
			repayments = $12, updated_at = $13
		WHERE id = $1
	`, loan.ID, loan.CustomerName, loan.PhoneNumber, loan.Address,
		string(loan.CollateralType), details, loan.LoanAmount, loan.InterestRate,
		loan.StartDate, loan.DueDate, string(loan.Status), repayments,
		loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return nil
}

// Delete removes the loan row, reporting whether it existed.
func (r *PostgresLoanRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM pawn_loans WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete loan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete loan: %w", err)
	}
	return affected > 0, nil
}

// scanLoan reads one loan row through the given scan function and
// unmarshals the JSONB columns.
func scanLoan(scan func(...any) error) (*models.PawnLoan, error) {
	var (
		loan       models.PawnLoan
		details    []byte
		repayments []byte
	)
	err := scan(&loan.ID, &loan.CustomerName, &loan.PhoneNumber, &loan.Address,
		&loan.CollateralType, &details, &loan.LoanAmount, &loan.InterestRate,
		&loan.StartDate, &loan.DueDate, &loan.Status, &repayments,
		&loan.CreatedAt, &loan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	if err := json.Unmarshal(details, &loan.CollateralDetails); err != nil {
		return nil, fmt.Errorf("unmarshal collateral details: %w", err)
	}
	if err := json.Unmarshal(repayments, &loan.Repayments); err != nil {
		return nil, fmt.Errorf("unmarshal repayments: %w", err)
	}
	return &loan, nil
}
