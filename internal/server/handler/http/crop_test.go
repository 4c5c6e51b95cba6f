package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rmanoharan/ledgerdesk/internal/models"
	"github.com/rmanoharan/ledgerdesk/internal/service"
)

// fakeCropService implements CropService for testing.
type fakeCropService struct {
	crop  *models.CropRecord
	crops []models.CropRecord
	err   error

	gotYield *models.Yield
	gotEntry *models.Expense
}

func (f *fakeCropService) Create(ctx context.Context, in service.CropInput) (*models.CropRecord, error) {
	return f.crop, f.err
}
func (f *fakeCropService) List(ctx context.Context) ([]models.CropRecord, error) {
	return f.crops, f.err
}
func (f *fakeCropService) Get(ctx context.Context, id string) (*models.CropRecord, error) {
	return f.crop, f.err
}
func (f *fakeCropService) Update(ctx context.Context, id string, in service.CropInput) (*models.CropRecord, error) {
	return f.crop, f.err
}
func (f *fakeCropService) Delete(ctx context.Context, id string) error {
	return f.err
}
func (f *fakeCropService) AddExpense(ctx context.Context, id string, entry models.Expense) (*models.CropRecord, error) {
	f.gotEntry = &entry
	return f.crop, f.err
}
func (f *fakeCropService) RecordHarvest(ctx context.Context, id string, actualYield models.Yield) (*models.CropRecord, error) {
	f.gotYield = &actualYield
	return f.crop, f.err
}

func fixtureCrop() *models.CropRecord {
	return &models.CropRecord{
		ID:                  "crop-1",
		CropType:            "Tomato",
		Location:            "North field",
		AreaSize:            models.AreaSize{Value: 2, Unit: models.UnitAcres},
		PlantingDate:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpectedHarvestDate: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:              models.CropGrowing,
		Expenses: []models.Expense{
			{Category: models.ExpenseSeeds, Amount: 200, Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
			{Category: models.ExpenseLabor, Amount: 300, Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestCropHandler_Get_IncludesDerivedTotals(t *testing.T) {
	h := &CropHandler{CropService: &fakeCropService{crop: fixtureCrop()}}

	rec := httptest.NewRecorder()
	h.Get(rec, newRequestWithID("GET", "/horticulture/crop-1", "crop-1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	_, data, _ := decodeEnvelope(t, rec.Body)
	if data["totalExpenses"] != 500.0 {
		t.Errorf("totalExpenses = %v, want 500", data["totalExpenses"])
	}
	byCategory, _ := data["expensesByCategory"].(map[string]any)
	if byCategory["seeds"] != 200.0 || byCategory["labor"] != 300.0 {
		t.Errorf("expensesByCategory = %v", byCategory)
	}
}

func TestCropHandler_List_IncludesCount(t *testing.T) {
	h := &CropHandler{CropService: &fakeCropService{crops: []models.CropRecord{*fixtureCrop()}}}

	rec := httptest.NewRecorder()
	h.List(rec, newRequestWithID("GET", "/horticulture", "", ""))

	var env struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
		Count   *int             `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if env.Count == nil || *env.Count != 1 {
		t.Errorf("count = %v, want 1", env.Count)
	}
}

func TestCropHandler_RecordHarvest(t *testing.T) {
	harvested := fixtureCrop()
	harvested.Status = models.CropHarvested
	harvested.ActualYield = &models.Yield{Value: 800, Unit: "kg"}

	svc := &fakeCropService{crop: harvested}
	h := &CropHandler{CropService: svc}

	rec := httptest.NewRecorder()
	h.RecordHarvest(rec, newRequestWithID("PUT", "/horticulture/crop-1/harvest", "crop-1",
		`{"actualYield":{"value":800,"unit":"kg"}}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.gotYield == nil || svc.gotYield.Value != 800 || svc.gotYield.Unit != "kg" {
		t.Errorf("service did not receive the yield: %+v", svc.gotYield)
	}
	_, data, _ := decodeEnvelope(t, rec.Body)
	if data["status"] != "harvested" {
		t.Errorf("status = %v, want harvested", data["status"])
	}
}

func TestCropHandler_AddExpense(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeCropService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeCropService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "not found",
			body:         `{"category":"seeds","amount":200}`,
			service:      &fakeCropService{err: service.ErrNotFound},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "validation error",
			body:         `{"category":"equipment","amount":200}`,
			service:      &fakeCropService{err: &service.ValidationError{Fields: []string{"category must be seeds, fertilizer, pesticides, labor, irrigation, or other"}}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "success",
			body:         `{"category":"seeds","amount":200}`,
			service:      &fakeCropService{crop: fixtureCrop()},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &CropHandler{CropService: tt.service}
			rec := httptest.NewRecorder()
			h.AddExpense(rec, newRequestWithID("POST", "/horticulture/crop-1/expense", "crop-1", tt.body))

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedCode)
			}
		})
	}
}

func TestCropHandler_Delete_NotFound(t *testing.T) {
	h := &CropHandler{CropService: &fakeCropService{err: service.ErrNotFound}}

	rec := httptest.NewRecorder()
	h.Delete(rec, newRequestWithID("DELETE", "/horticulture/ghost", "ghost", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
