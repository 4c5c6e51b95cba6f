package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// CropRepository defines the persistence operations required by the crop
// ledger engine.
type CropRepository interface {
	// Create stores a new crop record, assigning its ID and timestamps.
	Create(ctx context.Context, crop *models.CropRecord) error
	// List returns all crop records, most recent planting first.
	List(ctx context.Context) ([]models.CropRecord, error)
	// FindByID returns the record with the given id, or (nil, nil) when absent.
	FindByID(ctx context.Context, id string) (*models.CropRecord, error)
	// Update overwrites the stored crop row, ledger included.
	Update(ctx context.Context, crop *models.CropRecord) error
	// Delete removes the crop row, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// CropInput carries caller-supplied crop fields. Nil pointers mean
// "leave unchanged" on update and "absent" on create.
type CropInput struct {
	CropType            *string            `json:"cropType"`
	Location            *string            `json:"location"`
	AreaSize            *models.AreaSize   `json:"areaSize"`
	PlantingDate        *time.Time         `json:"plantingDate"`
	ExpectedHarvestDate *time.Time         `json:"expectedHarvestDate"`
	ExpectedYield       *models.Yield      `json:"expectedYield"`
	Status              *models.CropStatus `json:"status"`
	Notes               *string            `json:"notes"`
}

// apply merges the set fields onto the record. The expense ledger and
// actual yield are never touched here; expenses grow through AddExpense
// and actual yield is set by RecordHarvest alone.
func (in *CropInput) apply(crop *models.CropRecord) {
	if in.CropType != nil {
		crop.CropType = *in.CropType
	}
	if in.Location != nil {
		crop.Location = *in.Location
	}
	if in.AreaSize != nil {
		crop.AreaSize = *in.AreaSize
	}
	if in.PlantingDate != nil {
		crop.PlantingDate = *in.PlantingDate
	}
	if in.ExpectedHarvestDate != nil {
		crop.ExpectedHarvestDate = *in.ExpectedHarvestDate
	}
	if in.ExpectedYield != nil {
		yield := *in.ExpectedYield
		crop.ExpectedYield = &yield
	}
	if in.Status != nil {
		crop.Status = *in.Status
	}
	if in.Notes != nil {
		crop.Notes = *in.Notes
	}
}

// CropService is the crop ledger engine: record lifecycle, expense
// append, and the harvest transition.
type CropService struct {
	repo CropRepository
	// strict restricts caller-supplied status changes to the forward
	// direction. Off by default; RecordHarvest is never restricted.
	strict bool
}

// NewCropService constructs a CropService. With strict set, Update only
// accepts status changes that move the lifecycle forward.
func NewCropService(repo CropRepository, strict bool) *CropService {
	return &CropService{repo: repo, strict: strict}
}

// Create validates the input as a complete crop record and persists it
// with an empty expense ledger. Status defaults to "planning" and the
// area unit to acres.
func (s *CropService) Create(ctx context.Context, in CropInput) (*models.CropRecord, error) {
	crop := &models.CropRecord{Status: models.CropPlanning}
	in.apply(crop)
	if crop.AreaSize.Unit == "" {
		crop.AreaSize.Unit = models.UnitAcres
	}
	if err := validateCrop(crop); err != nil {
		return nil, err
	}
	crop.Expenses = []models.Expense{}
	if err := s.repo.Create(ctx, crop); err != nil {
		return nil, fmt.Errorf("create crop record: %w", err)
	}
	return crop, nil
}

// List returns all crop records, most recent planting first.
func (s *CropService) List(ctx context.Context) ([]models.CropRecord, error) {
	crops, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crop records: %w", err)
	}
	return crops, nil
}

// Get returns a single crop record or ErrNotFound.
func (s *CropService) Get(ctx context.Context, id string) (*models.CropRecord, error) {
	crop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find crop record: %w", err)
	}
	if crop == nil {
		return nil, ErrNotFound
	}
	return crop, nil
}

// Update merges the set fields onto the stored record, re-validates the
// merged state, and persists it. Status is caller-driven here; only
// strict mode constrains it to forward transitions.
func (s *CropService) Update(ctx context.Context, id string, in CropInput) (*models.CropRecord, error) {
	crop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := crop.Status
	in.apply(crop)
	if err := validateCrop(crop); err != nil {
		return nil, err
	}
	if s.strict && crop.Status.Order() < previous.Order() {
		return nil, &ValidationError{Fields: []string{
			fmt.Sprintf("status cannot move back from %s to %s", previous, crop.Status),
		}}
	}

	if err := s.repo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("update crop record: %w", err)
	}
	return crop, nil
}

// Delete irreversibly removes a crop record and its expense ledger.
func (s *CropService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete crop record: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// AddExpense appends one entry to the crop's expense ledger.
func (s *CropService) AddExpense(ctx context.Context, id string, entry models.Expense) (*models.CropRecord, error) {
	var fields fieldErrors
	if entry.Amount <= 0 {
		fields.add("amount must be greater than zero")
	}
	if !entry.Category.Valid() {
		fields.add("category must be seeds, fertilizer, pesticides, labor, irrigation, or other")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	crop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	crop.Expenses = append(crop.Expenses, entry)
	if err := s.repo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}
	return crop, nil
}

// RecordHarvest stores the actual yield and forces status to "harvested".
// This is the one engine-driven transition, and it applies from any prior
// status, strict mode included.
func (s *CropService) RecordHarvest(ctx context.Context, id string, actualYield models.Yield) (*models.CropRecord, error) {
	crop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	yield := actualYield
	crop.ActualYield = &yield
	crop.Status = models.CropHarvested
	if err := s.repo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("record harvest: %w", err)
	}
	return crop, nil
}

func validateCrop(crop *models.CropRecord) error {
	var fields fieldErrors
	if crop.CropType == "" {
		fields.add("crop type is required")
	}
	if crop.Location == "" {
		fields.add("location is required")
	}
	if crop.AreaSize.Value <= 0 {
		fields.add("area size is required")
	}
	if !crop.AreaSize.Unit.Valid() {
		fields.add("area unit must be acres or hectares")
	}
	if crop.PlantingDate.IsZero() {
		fields.add("planting date is required")
	}
	if crop.ExpectedHarvestDate.IsZero() {
		fields.add("expected harvest date is required")
	}
	if !crop.Status.Valid() {
		fields.add("status must be planning, planted, growing, or harvested")
	}
	return fields.err()
}
