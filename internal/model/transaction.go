package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// DateLayout is the calendar date format accepted and produced by the API
const DateLayout = "2006-01-02"

// Transaction represents an income or expense record
type Transaction struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"` // "income" or "expense"
	Category      string          `json:"category"`
	Item          string          `json:"item"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`                      // Calendar date, midnight UTC
	SavingsGoalID *int64          `json:"savings_goal_id,omitempty"` // Only for Goal Savings expenses
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DateString returns the calendar date of the transaction
func (t Transaction) DateString() string {
	if t.Date.IsZero() {
		return ""
	}
	return t.Date.Format(DateLayout)
}

// CreateTransactionRequest is used for creating a new transaction.
// Amount and Date stay strings so malformed values surface as validation errors.
type CreateTransactionRequest struct {
	Type          string `json:"type" binding:"required,oneof=income expense"`
	Category      string `json:"category" binding:"required"`
	Item          string `json:"item" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	SavingsGoalID *int64 `json:"savings_goal_id"`
}

type UpdateTransactionRequest struct {
	Type          *string `json:"type,omitempty" binding:"omitempty,oneof=income expense"` // Pointers to allow partial updates
	Category      *string `json:"category,omitempty"`
	Item          *string `json:"item,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	Date          *string `json:"date,omitempty"`
	Description   *string `json:"description,omitempty"`
	SavingsGoalID *int64  `json:"savings_goal_id,omitempty"`
}

// TransactionPatch holds the already-parsed fields of a partial update.
// Nil fields are left untouched by the store.
type TransactionPatch struct {
	Type               *string
	Category           *string
	Item               *string
	Description        *string
	Amount             *decimal.Decimal
	Date               *time.Time
	SavingsGoalID      *int64
	ClearSavingsGoalID bool
}

// IsEmpty reports whether the patch changes nothing
func (p TransactionPatch) IsEmpty() bool {
	return p.Type == nil && p.Category == nil && p.Item == nil && p.Description == nil &&
		p.Amount == nil && p.Date == nil && p.SavingsGoalID == nil && !p.ClearSavingsGoalID
}

// Apply returns a copy of t with the patch fields replaced
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Item != nil {
		t.Item = *p.Item
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.ClearSavingsGoalID {
		t.SavingsGoalID = nil
	} else if p.SavingsGoalID != nil {
		id := *p.SavingsGoalID
		t.SavingsGoalID = &id
	}
	return t
}

// TransactionFilters contains the search and pagination parameters of list views
type TransactionFilters struct {
	SearchQuery string
	Page        int
	PerPage     int
}

// TransactionPage is a single page of a (possibly searched) transaction list
type TransactionPage struct {
	Transactions      []Transaction `json:"transactions"`
	Page              int           `json:"page"`
	PerPage           int           `json:"per_page"`
	TotalPages        int           `json:"total_pages"`
	TotalTransactions int           `json:"total_transactions"`
}
