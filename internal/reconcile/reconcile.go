// Package reconcile derives savings goal balances from the transaction list.
package reconcile

import (
	"github.com/shopspring/decimal"

	"budget_tracker/internal/model"
)

// Classifier decides which categories count as savings
type Classifier interface {
	IsGoalSavings(category string) bool
	IsGeneralSavings(category string) bool
}

// NameClassifier matches categories by exact name
type NameClassifier struct {
	GoalSavings    string
	GeneralSavings string
}

// DefaultClassifier uses the built-in "Goal Savings" and "General Savings" names
var DefaultClassifier = NameClassifier{
	GoalSavings:    model.CategoryGoalSavings,
	GeneralSavings: model.CategoryGeneralSavings,
}

func (c NameClassifier) IsGoalSavings(category string) bool {
	return category == c.GoalSavings
}

func (c NameClassifier) IsGeneralSavings(category string) bool {
	return category == c.GeneralSavings
}

// Contribution returns the goal and amount a transaction adds to saved_amount.
// ok is false when the transaction does not contribute to any goal.
func Contribution(t model.Transaction, cls Classifier) (goalID int64, amount decimal.Decimal, ok bool) {
	if t.Type != model.TransactionTypeExpense || !cls.IsGoalSavings(t.Category) || t.SavingsGoalID == nil {
		return 0, decimal.Zero, false
	}
	return *t.SavingsGoalID, t.Amount, true
}

// ComputeSavedAmounts sums the contributions of txs per goal. Every goal gets an
// entry, zero when nothing references it. Goal ids referenced by transactions but
// missing from goals are returned as orphans.
func ComputeSavedAmounts(goals []model.SavingsGoal, txs []model.Transaction, cls Classifier) (map[int64]decimal.Decimal, []int64) {
	sums := make(map[int64]decimal.Decimal, len(goals))
	for _, g := range goals {
		sums[g.ID] = decimal.Zero
	}

	var orphans []int64
	seen := make(map[int64]bool)
	for _, t := range txs {
		goalID, amount, ok := Contribution(t, cls)
		if !ok {
			continue
		}
		cur, known := sums[goalID]
		if !known {
			if !seen[goalID] {
				seen[goalID] = true
				orphans = append(orphans, goalID)
			}
			continue
		}
		sums[goalID] = cur.Add(amount)
	}
	return sums, orphans
}

// GeneralSavingsTotal sums every General Savings expense
func GeneralSavingsTotal(txs []model.Transaction, cls Classifier) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == model.TransactionTypeExpense && cls.IsGeneralSavings(t.Category) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Delta is a single saved_amount adjustment
type Delta struct {
	GoalID int64
	Amount decimal.Decimal
}

// EditDeltas returns the adjustments that move goal balances from the effect of
// before to the effect of after. Adjustments on the same goal are merged and zero
// results are dropped.
func EditDeltas(before, after *model.Transaction, cls Classifier) []Delta {
	var deltas []Delta
	add := func(goalID int64, amount decimal.Decimal) {
		for i := range deltas {
			if deltas[i].GoalID == goalID {
				deltas[i].Amount = deltas[i].Amount.Add(amount)
				return
			}
		}
		deltas = append(deltas, Delta{GoalID: goalID, Amount: amount})
	}

	if before != nil {
		if id, amount, ok := Contribution(*before, cls); ok {
			add(id, amount.Neg())
		}
	}
	if after != nil {
		if id, amount, ok := Contribution(*after, cls); ok {
			add(id, amount)
		}
	}

	out := deltas[:0]
	for _, d := range deltas {
		if !d.Amount.IsZero() {
			out = append(out, d)
		}
	}
	return out
}
