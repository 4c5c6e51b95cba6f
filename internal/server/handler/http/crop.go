package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rmanoharan/ledgerdesk/internal/httputil"
	"github.com/rmanoharan/ledgerdesk/internal/models"
	"github.com/rmanoharan/ledgerdesk/internal/service"
)

// CropService defines the crop ledger operations required by the HTTP
// handlers.
type CropService interface {
	Create(ctx context.Context, in service.CropInput) (*models.CropRecord, error)
	List(ctx context.Context) ([]models.CropRecord, error)
	Get(ctx context.Context, id string) (*models.CropRecord, error)
	Update(ctx context.Context, id string, in service.CropInput) (*models.CropRecord, error)
	Delete(ctx context.Context, id string) error
	AddExpense(ctx context.Context, id string, entry models.Expense) (*models.CropRecord, error)
	RecordHarvest(ctx context.Context, id string, actualYield models.Yield) (*models.CropRecord, error)
}

// CropHandler handles horticulture record requests.
type CropHandler struct {
	CropService CropService
}

// cropView augments a crop record with its derived expense totals.
type cropView struct {
	*models.CropRecord
	TotalExpenses      float64                            `json:"totalExpenses"`
	ExpensesByCategory map[models.ExpenseCategory]float64 `json:"expensesByCategory"`
}

func newCropView(crop *models.CropRecord) cropView {
	return cropView{
		CropRecord:         crop,
		TotalExpenses:      crop.TotalExpenses(),
		ExpensesByCategory: crop.ExpensesByCategory(),
	}
}

// Create handles POST /horticulture.
func (h *CropHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CropInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	crop, err := h.CropService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, newCropView(crop))
}

// List handles GET /horticulture, responding with all records and their
// count.
func (h *CropHandler) List(w http.ResponseWriter, r *http.Request) {
	crops, err := h.CropService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]cropView, 0, len(crops))
	for i := range crops {
		views = append(views, newCropView(&crops[i]))
	}
	httputil.WriteList(w, views, len(views))
}

// Get handles GET /horticulture/{id}.
func (h *CropHandler) Get(w http.ResponseWriter, r *http.Request) {
	crop, err := h.CropService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCropView(crop))
}

// Update handles PUT /horticulture/{id}, merging the supplied fields onto
// the stored record.
func (h *CropHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.CropInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	crop, err := h.CropService.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCropView(crop))
}

// Delete handles DELETE /horticulture/{id}.
func (h *CropHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CropService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, struct{}{})
}

// AddExpense handles POST /horticulture/{id}/expense, appending one entry
// to the record's expense ledger.
func (h *CropHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var entry models.Expense
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	crop, err := h.CropService.AddExpense(r.Context(), chi.URLParam(r, "id"), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCropView(crop))
}

// harvestRequest is the JSON payload for recording a harvest.
type harvestRequest struct {
	ActualYield models.Yield `json:"actualYield"`
}

// RecordHarvest handles PUT /horticulture/{id}/harvest. It stores the
// actual yield and forces the record's status to harvested.
func (h *CropHandler) RecordHarvest(w http.ResponseWriter, r *http.Request) {
	var req harvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	crop, err := h.CropService.RecordHarvest(r.Context(), chi.URLParam(r, "id"), req.ActualYield)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCropView(crop))
}
