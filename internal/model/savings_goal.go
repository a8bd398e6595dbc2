package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a named target that Goal Savings expenses contribute to
type SavingsGoal struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProgressPercent returns saved/target as a percentage rounded to two places
func (g SavingsGoal) ProgressPercent() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// Remaining returns how much is still missing to reach the target, never negative
func (g SavingsGoal) Remaining() decimal.Decimal {
	rem := g.TargetAmount.Sub(g.SavedAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

type SavingsGoalRequest struct {
	Name         string `json:"name" binding:"required"`
	TargetAmount string `json:"target_amount" binding:"required"`
}

// SavingsGoalView is the API representation of a goal with derived progress
type SavingsGoalView struct {
	SavingsGoal
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	Remaining       decimal.Decimal `json:"remaining"`
}

// NewSavingsGoalView wraps g with its derived fields
func NewSavingsGoalView(g SavingsGoal) SavingsGoalView {
	return SavingsGoalView{
		SavingsGoal:     g,
		ProgressPercent: g.ProgressPercent(),
		Remaining:       g.Remaining(),
	}
}
