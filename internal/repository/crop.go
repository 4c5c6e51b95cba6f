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

// PostgresCropRepository implements crop record persistence against a
// PostgreSQL database. Like the loan repository, the expense ledger is a
// JSONB column on the parent row and writes are last-write-wins.
type PostgresCropRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCropRepository creates a new PostgresCropRepository with the
// given database connection.
func NewPostgresCropRepository(db *sql.DB) *PostgresCropRepository {
	return &PostgresCropRepository{DB: db}
}

const cropColumns = `id, crop_type, location, area_size, planting_date,
	expected_harvest_date, expected_yield, actual_yield, status, notes,
	expenses, created_at, updated_at`

// Create inserts a new crop row, assigning a fresh id and timestamps.
func (r *PostgresCropRepository) Create(ctx context.Context, crop *models.CropRecord) error {
	crop.ID = uuid.NewString()
	now := time.Now().UTC()
	crop.CreatedAt = now
	crop.UpdatedAt = now

	area, expected, actual, expenses, err := marshalCropJSON(crop)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO crop_records (`+cropColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, crop.ID, crop.CropType, crop.Location, area, crop.PlantingDate,
		crop.ExpectedHarvestDate, expected, actual, string(crop.Status),
		crop.Notes, expenses, crop.CreatedAt, crop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert crop record: %w", err)
	}
	return nil
}

// List returns all crop records, most recent planting first.
func (r *PostgresCropRepository) List(ctx context.Context) ([]models.CropRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+cropColumns+` FROM crop_records ORDER BY planting_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list crop records: %w", err)
	}
	defer rows.Close()

	var crops []models.CropRecord
	for rows.Next() {
		crop, err := scanCrop(rows.Scan)
		if err != nil {
			return nil, err
		}
		crops = append(crops, *crop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list crop records: %w", err)
	}
	return crops, nil
}

// FindByID returns the crop record with the given id, or (nil, nil) when
// absent.
func (r *PostgresCropRepository) FindByID(ctx context.Context, id string) (*models.CropRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+cropColumns+` FROM crop_records WHERE id = $1
	`, id)
	crop, err := scanCrop(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return crop, nil
}

// Update overwrites all mutable columns of the crop row, expense ledger
// included, and refreshes updated_at.
func (r *PostgresCropRepository) Update(ctx context.Context, crop *models.CropRecord) error {
	crop.UpdatedAt = time.Now().UTC()

	area, expected, actual, expenses, err := marshalCropJSON(crop)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		UPDATE crop_records SET
			crop_type = $2, location = $3, area_size = $4, planting_date = $5,
			expected_harvest_date = $6, expected_yield = $7, actual_yield = $8,
			status = $9, notes = $10, expenses = $11, updated_at = $12
		WHERE id = $1
	`, crop.ID, crop.CropType, crop.Location, area, crop.PlantingDate,
		crop.ExpectedHarvestDate, expected, actual, string(crop.Status),
		crop.Notes, expenses, crop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update crop record: %w", err)
	}
	return nil
}

// Delete removes the crop row, reporting whether it existed.
func (r *PostgresCropRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM crop_records WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete crop record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete crop record: %w", err)
	}
	return affected > 0, nil
}

// marshalCropJSON encodes the JSONB columns. Nil yields become SQL NULL.
func marshalCropJSON(crop *models.CropRecord) (area, expected, actual, expenses []byte, err error) {
	area, err = json.Marshal(crop.AreaSize)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal area size: %w", err)
	}
	if crop.ExpectedYield != nil {
		expected, err = json.Marshal(crop.ExpectedYield)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal expected yield: %w", err)
		}
	}
	if crop.ActualYield != nil {
		actual, err = json.Marshal(crop.ActualYield)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal actual yield: %w", err)
		}
	}
	expenses, err = json.Marshal(crop.Expenses)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal expenses: %w", err)
	}
	return area, expected, actual, expenses, nil
}

// scanCrop reads one crop row through the given scan function and
// unmarshals the JSONB columns.
func scanCrop(scan func(...any) error) (*models.CropRecord, error) {
	var (
		crop     models.CropRecord
		area     []byte
		expected []byte
		actual   []byte
		expenses []byte
	)
	err := scan(&crop.ID, &crop.CropType, &crop.Location, &area,
		&crop.PlantingDate, &crop.ExpectedHarvestDate, &expected, &actual,
		&crop.Status, &crop.Notes, &expenses, &crop.CreatedAt, &crop.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan crop record: %w", err)
	}
	if err := json.Unmarshal(area, &crop.AreaSize); err != nil {
		return nil, fmt.Errorf("unmarshal area size: %w", err)
	}
	if len(expected) > 0 {
		crop.ExpectedYield = &models.Yield{}
		if err := json.Unmarshal(expected, crop.ExpectedYield); err != nil {
			return nil, fmt.Errorf("unmarshal expected yield: %w", err)
		}
	}
	if len(actual) > 0 {
		crop.ActualYield = &models.Yield{}
		if err := json.Unmarshal(actual, crop.ActualYield); err != nil {
			return nil, fmt.Errorf("unmarshal actual yield: %w", err)
		}
	}
	if err := json.Unmarshal(expenses, &crop.Expenses); err != nil {
		return nil, fmt.Errorf("unmarshal expenses: %w", err)
	}
	return &crop, nil
}
