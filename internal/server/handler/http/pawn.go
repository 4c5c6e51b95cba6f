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

// LoanService defines the loan ledger operations required by the HTTP
// handlers.
type LoanService interface {
	Create(ctx context.Context, in service.LoanInput) (*models.PawnLoan, error)
	List(ctx context.Context) ([]models.PawnLoan, error)
	Get(ctx context.Context, id string) (*models.PawnLoan, error)
	Update(ctx context.Context, id string, in service.LoanInput) (*models.PawnLoan, error)
	Delete(ctx context.Context, id string) error
	AddRepayment(ctx context.Context, id string, entry models.Repayment) (*models.PawnLoan, error)
}

// PawnHandler handles pawn loan requests.
type PawnHandler struct {
	LoanService LoanService
}

// loanView augments a loan with its derived totals. The totals are
// recomputed for every response and never stored.
type loanView struct {
	*models.PawnLoan
	TotalRepaid          float64 `json:"totalRepaid"`
	OutstandingPrincipal float64 `json:"outstandingPrincipal"`
}

func newLoanView(loan *models.PawnLoan) loanView {
	return loanView{
		PawnLoan:             loan,
		TotalRepaid:          loan.TotalRepaid(),
		OutstandingPrincipal: loan.OutstandingPrincipal(),
	}
}

// Create handles POST /pawn.
func (h *PawnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := h.LoanService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, newLoanView(loan))
}

// List handles GET /pawn, responding with all loans and their count.
func (h *PawnHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.LoanService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]loanView, 0, len(loans))
	for i := range loans {
		views = append(views, newLoanView(&loans[i]))
	}
	httputil.WriteList(w, views, len(views))
}

// Get handles GET /pawn/{id}.
func (h *PawnHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.LoanService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newLoanView(loan))
}

// Update handles PUT /pawn/{id}, merging the supplied fields onto the
// stored loan.
func (h *PawnHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := h.LoanService.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newLoanView(loan))
}

// Delete handles DELETE /pawn/{id}.
func (h *PawnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.LoanService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, struct{}{})
}

// AddRepayment handles POST /pawn/{id}/repayment, appending one entry to
// the loan's repayment ledger.
func (h *PawnHandler) AddRepayment(w http.ResponseWriter, r *http.Request) {
	var entry models.Repayment
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := h.LoanService.AddRepayment(r.Context(), chi.URLParam(r, "id"), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, newLoanView(loan))
}
