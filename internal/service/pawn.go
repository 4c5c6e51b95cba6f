package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// LoanRepository defines the persistence operations required by the loan
// ledger engine.
type LoanRepository interface {
	// Create stores a new loan, assigning its ID and timestamps.
	Create(ctx context.Context, loan *models.PawnLoan) error
	// List returns all loans, newest first.
	List(ctx context.Context) ([]models.PawnLoan, error)
	// FindByID returns the loan with the given id, or (nil, nil) when absent.
	FindByID(ctx context.Context, id string) (*models.PawnLoan, error)
	// Update overwrites the stored loan row, ledger included.
	Update(ctx context.Context, loan *models.PawnLoan) error
	// Delete removes the loan row, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// LoanInput carries caller-supplied loan fields. Nil pointers mean
// "leave unchanged" on update and "absent" on create, so one shape serves
// both full creation and partial merge.
type LoanInput struct {
	CustomerName      *string                   `json:"customerName"`
	PhoneNumber       *string                   `json:"phoneNumber"`
	Address           *string                   `json:"address"`
	CollateralType    *models.CollateralType    `json:"collateralType"`
	CollateralDetails *models.CollateralDetails `json:"collateralDetails"`
	LoanAmount        *float64                  `json:"loanAmount"`
	InterestRate      *float64                  `json:"interestRate"`
	StartDate         *time.Time                `json:"startDate"`
	DueDate           *time.Time                `json:"dueDate"`
	Status            *models.LoanStatus        `json:"status"`
}

// apply merges the set fields onto the loan. The repayment ledger is
// never touched here; it only grows through AddRepayment.
func (in *LoanInput) apply(loan *models.PawnLoan) {
	if in.CustomerName != nil {
		loan.CustomerName = *in.CustomerName
	}
	if in.PhoneNumber != nil {
		loan.PhoneNumber = *in.PhoneNumber
	}
	if in.Address != nil {
		loan.Address = *in.Address
	}
	if in.CollateralType != nil {
		loan.CollateralType = *in.CollateralType
	}
	if in.CollateralDetails != nil {
		loan.CollateralDetails = *in.CollateralDetails
	}
	if in.LoanAmount != nil {
		loan.LoanAmount = *in.LoanAmount
	}
	if in.InterestRate != nil {
		loan.InterestRate = *in.InterestRate
	}
	if in.StartDate != nil {
		loan.StartDate = *in.StartDate
	}
	if in.DueDate != nil {
		loan.DueDate = *in.DueDate
	}
	if in.Status != nil {
		loan.Status = *in.Status
	}
}

// LoanService is the loan ledger engine: record lifecycle, repayment
// append, and validation. It is stateless; the repository holds all state.
type LoanService struct {
	repo LoanRepository
	// strict enables transition checks on caller-supplied status changes.
	// Off by default: the status field is deliberately caller-driven.
	strict bool
}

// NewLoanService constructs a LoanService. With strict set, a stored loan
// status may only change away from "active".
func NewLoanService(repo LoanRepository, strict bool) *LoanService {
	return &LoanService{repo: repo, strict: strict}
}

// Create validates the input as a complete loan and persists it with an
// empty repayment ledger. Status defaults to "active".
func (s *LoanService) Create(ctx context.Context, in LoanInput) (*models.PawnLoan, error) {
	loan := &models.PawnLoan{Status: models.LoanActive}
	in.apply(loan)
	if loan.StartDate.IsZero() {
		loan.StartDate = time.Now().UTC()
	}
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	loan.Repayments = []models.Repayment{}
	if err := s.repo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}
	return loan, nil
}

// List returns all loans, newest first.
func (s *LoanService) List(ctx context.Context) ([]models.PawnLoan, error) {
	loans, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// Get returns a single loan or ErrNotFound.
func (s *LoanService) Get(ctx context.Context, id string) (*models.PawnLoan, error) {
	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find loan: %w", err)
	}
	if loan == nil {
		return nil, ErrNotFound
	}
	return loan, nil
}

// Update merges the set fields onto the stored loan, re-validates the
// merged record, and persists it. The engine performs no automatic status
// transitions; whatever valid status the caller supplies is stored.
func (s *LoanService) Update(ctx context.Context, id string, in LoanInput) (*models.PawnLoan, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := loan.Status
	in.apply(loan)
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	if s.strict && loan.Status != previous && previous != models.LoanActive {
		return nil, &ValidationError{Fields: []string{
			fmt.Sprintf("status cannot change once %s", previous),
		}}
	}

	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("update loan: %w", err)
	}
	return loan, nil
}

// Delete irreversibly removes a loan and its repayment ledger.
func (s *LoanService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// AddRepayment appends one entry to the loan's repayment ledger. Entries
// are never rejected for exceeding the outstanding balance; over-payment
// is permitted and left to the caller to interpret.
func (s *LoanService) AddRepayment(ctx context.Context, id string, entry models.Repayment) (*models.PawnLoan, error) {
	var fields fieldErrors
	if entry.Amount <= 0 {
		fields.add("amount must be greater than zero")
	}
	if !entry.Type.Valid() {
		fields.add("type must be interest or principal")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.Repayments = append(loan.Repayments, entry)
	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("save repayment: %w", err)
	}
	return loan, nil
}

// validateLoan checks the required fields and the collateral union: gold
// loans must carry gold detail fields, land loans land detail fields.
func validateLoan(loan *models.PawnLoan) error {
	var fields fieldErrors
	if loan.CustomerName == "" {
		fields.add("customer name is required")
	}
	if loan.PhoneNumber == "" {
		fields.add("phone number is required")
	}
	if loan.Address == "" {
		fields.add("address is required")
	}
	if loan.LoanAmount <= 0 {
		fields.add("loan amount must be greater than zero")
	}
	if loan.InterestRate <= 0 {
		fields.add("interest rate must be greater than zero")
	}
	if loan.DueDate.IsZero() {
		fields.add("due date is required")
	} else if loan.DueDate.Before(loan.StartDate) {
		fields.add("due date must not be before start date")
	}
	if !loan.Status.Valid() {
		fields.add("status must be active, completed, or defaulted")
	}

	switch loan.CollateralType {
	case models.CollateralGold:
		d := loan.CollateralDetails
		if d.Weight <= 0 {
			fields.add("collateral weight is required for gold")
		}
		if d.Purity <= 0 {
			fields.add("collateral purity is required for gold")
		}
	case models.CollateralLand:
		d := loan.CollateralDetails
		if d.DocumentNumber == "" {
			fields.add("document number is required for land")
		}
		if d.LandArea <= 0 {
			fields.add("land area is required for land")
		}
		if d.Location == "" {
			fields.add("location is required for land")
		}
		if d.MarketValue <= 0 {
			fields.add("market value is required for land")
		}
	default:
		fields.add("collateral type must be gold or land")
	}

	return fields.err()
}
