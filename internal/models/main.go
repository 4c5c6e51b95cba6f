// Package models defines the core data structures for user accounts,
// pawn loans, and horticulture crop records.
package models

import "time"

// Role identifies the permission level of a user account.
type Role string

const (
	// RoleAdmin may manage accounts in addition to ledger records.
	RoleAdmin Role = "admin"
	// RoleUser may manage ledger records only.
	RoleUser Role = "user"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte `json:"-"`
	// Role controls which operations the user may perform.
	Role Role `json:"role"`
}

// CollateralType identifies which asset secures a pawn loan.
type CollateralType string

const (
	// CollateralGold marks a loan secured by gold items.
	CollateralGold CollateralType = "gold"
	// CollateralLand marks a loan secured by land documents.
	CollateralLand CollateralType = "land"
)

// Valid reports whether the collateral type is one of the known types.
func (c CollateralType) Valid() bool {
	return c == CollateralGold || c == CollateralLand
}

// CollateralDetails holds the type-specific fields of loan collateral.
// Gold loans use Weight, Purity, and Description; land loans use
// DocumentNumber, LandArea, Location, and MarketValue.
type CollateralDetails struct {
	Weight      float64 `json:"weight,omitempty"`
	Purity      float64 `json:"purity,omitempty"`
	Description string  `json:"description,omitempty"`

	DocumentNumber string  `json:"documentNumber,omitempty"`
	LandArea       float64 `json:"landArea,omitempty"`
	Location       string  `json:"location,omitempty"`
	MarketValue    float64 `json:"marketValue,omitempty"`
}

// LoanStatus is the lifecycle state of a pawn loan.
type LoanStatus string

const (
	// LoanActive is the initial state of every loan.
	LoanActive LoanStatus = "active"
	// LoanCompleted marks a loan settled by the customer.
	LoanCompleted LoanStatus = "completed"
	// LoanDefaulted marks a loan the customer failed to settle.
	LoanDefaulted LoanStatus = "defaulted"
)

// Valid reports whether the status is one of the known loan statuses.
func (s LoanStatus) Valid() bool {
	return s == LoanActive || s == LoanCompleted || s == LoanDefaulted
}

// RepaymentType distinguishes interest payments from principal payments.
type RepaymentType string

const (
	// RepaymentInterest is a payment against accrued interest.
	RepaymentInterest RepaymentType = "interest"
	// RepaymentPrincipal is a payment against the loan principal.
	RepaymentPrincipal RepaymentType = "principal"
)

// Valid reports whether the repayment type is one of the known types.
func (t RepaymentType) Valid() bool {
	return t == RepaymentInterest || t == RepaymentPrincipal
}

// Repayment is a single entry in a loan's repayment ledger.
// Entries are append-only; they are never edited or removed individually.
type Repayment struct {
	Amount float64       `json:"amount"`
	Date   time.Time     `json:"date"`
	Type   RepaymentType `json:"type"`
}

// PawnLoan is the aggregate root for a single pawn loan, owning its
// repayment ledger.
type PawnLoan struct {
	ID                string            `json:"id"`
	CustomerName      string            `json:"customerName"`
	PhoneNumber       string            `json:"phoneNumber"`
	Address           string            `json:"address"`
	CollateralType    CollateralType    `json:"collateralType"`
	CollateralDetails CollateralDetails `json:"collateralDetails"`
	LoanAmount        float64           `json:"loanAmount"`
	InterestRate      float64           `json:"interestRate"`
	StartDate         time.Time         `json:"startDate"`
	DueDate           time.Time         `json:"dueDate"`
	Status            LoanStatus        `json:"status"`
	Repayments        []Repayment       `json:"repayments"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// TotalRepaid returns the sum of all repayment amounts, interest and
// principal alike. Computed from the ledger on every call, never stored.
func (l *PawnLoan) TotalRepaid() float64 {
	var total float64
	for _, r := range l.Repayments {
		total += r.Amount
	}
	return total
}

// OutstandingPrincipal returns the loan amount less all principal
// repayments. Interest payments do not reduce the principal. The result
// can go negative when the customer over-pays; that is a caller concern.
func (l *PawnLoan) OutstandingPrincipal() float64 {
	outstanding := l.LoanAmount
	for _, r := range l.Repayments {
		if r.Type == RepaymentPrincipal {
			outstanding -= r.Amount
		}
	}
	return outstanding
}

// AreaUnit is the unit of measure for a cultivated area.
type AreaUnit string

const (
	// UnitAcres measures area in acres.
	UnitAcres AreaUnit = "acres"
	// UnitHectares measures area in hectares.
	UnitHectares AreaUnit = "hectares"
)

// Valid reports whether the unit is one of the known area units.
func (u AreaUnit) Valid() bool {
	return u == UnitAcres || u == UnitHectares
}

// AreaSize is a measured cultivated area.
type AreaSize struct {
	Value float64  `json:"value"`
	Unit  AreaUnit `json:"unit"`
}

// Yield is a harvested or projected crop quantity. The unit is free-form
// (kg, tons, crates).
type Yield struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// CropStatus is the lifecycle state of a crop cycle.
type CropStatus string

const (
	// CropPlanning is the initial state before anything is in the ground.
	CropPlanning CropStatus = "planning"
	// CropPlanted means seeds or saplings are in the ground.
	CropPlanted CropStatus = "planted"
	// CropGrowing means the crop is maturing in the field.
	CropGrowing CropStatus = "growing"
	// CropHarvested means the cycle is finished and yield recorded.
	CropHarvested CropStatus = "harvested"
)

// Valid reports whether the status is one of the known crop statuses.
func (s CropStatus) Valid() bool {
	switch s {
	case CropPlanning, CropPlanted, CropGrowing, CropHarvested:
		return true
	}
	return false
}

// Order returns the position of the status in the forward lifecycle,
// planning first. Unknown statuses sort last.
func (s CropStatus) Order() int {
	switch s {
	case CropPlanning:
		return 0
	case CropPlanted:
		return 1
	case CropGrowing:
		return 2
	case CropHarvested:
		return 3
	}
	return 4
}

// ExpenseCategory classifies a crop expense.
type ExpenseCategory string

const (
	ExpenseSeeds      ExpenseCategory = "seeds"
	ExpenseFertilizer ExpenseCategory = "fertilizer"
	ExpensePesticides ExpenseCategory = "pesticides"
	ExpenseLabor      ExpenseCategory = "labor"
	ExpenseIrrigation ExpenseCategory = "irrigation"
	ExpenseOther      ExpenseCategory = "other"
)

// Valid reports whether the category is one of the known categories.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseSeeds, ExpenseFertilizer, ExpensePesticides,
		ExpenseLabor, ExpenseIrrigation, ExpenseOther:
		return true
	}
	return false
}

// Expense is a single entry in a crop record's expense ledger.
// Entries are append-only; they are never edited or removed individually.
type Expense struct {
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// CropRecord is the aggregate root for a single crop cycle, owning its
// expense ledger. ActualYield stays nil until harvest is recorded.
type CropRecord struct {
	ID                  string     `json:"id"`
	CropType            string     `json:"cropType"`
	Location            string     `json:"location"`
	AreaSize            AreaSize   `json:"areaSize"`
	PlantingDate        time.Time  `json:"plantingDate"`
	ExpectedHarvestDate time.Time  `json:"expectedHarvestDate"`
	ExpectedYield       *Yield     `json:"expectedYield,omitempty"`
	ActualYield         *Yield     `json:"actualYield,omitempty"`
	Status              CropStatus `json:"status"`
	Notes               string     `json:"notes,omitempty"`
	Expenses            []Expense  `json:"expenses"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// TotalExpenses returns the sum of all expense amounts. Computed from the
// ledger on every call, never stored.
func (c *CropRecord) TotalExpenses() float64 {
	var total float64
	for _, e := range c.Expenses {
		total += e.Amount
	}
	return total
}

// ExpensesByCategory returns per-category expense totals. Categories with
// no entries are absent from the map.
func (c *CropRecord) ExpensesByCategory() map[ExpenseCategory]float64 {
	byCategory := make(map[ExpenseCategory]float64)
	for _, e := range c.Expenses {
		byCategory[e.Category] += e.Amount
	}
	return byCategory
}
