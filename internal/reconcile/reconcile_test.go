package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"budget_tracker/internal/model"
)

func goalID(id int64) *int64 { return &id }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestContribution(t *testing.T) {
	tests := []struct {
		name   string
		tx     model.Transaction
		ok     bool
		goal   int64
		amount string
	}{
		{
			name:   "goal savings expense",
			tx:     model.Transaction{Type: "expense", Category: "Goal Savings", Amount: dec("100"), SavingsGoalID: goalID(1)},
			ok:     true,
			goal:   1,
			amount: "100",
		},
		{
			name: "goal savings without goal id",
			tx:   model.Transaction{Type: "expense", Category: "Goal Savings", Amount: dec("100")},
		},
		{
			name: "income tagged with a goal",
			tx:   model.Transaction{Type: "income", Category: "Goal Savings", Amount: dec("100"), SavingsGoalID: goalID(1)},
		},
		{
			name: "other category",
			tx:   model.Transaction{Type: "expense", Category: "Food", Amount: dec("50"), SavingsGoalID: goalID(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, amount, ok := Contribution(tt.tx, DefaultClassifier)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.goal, id)
				assert.True(t, dec(tt.amount).Equal(amount))
			}
		})
	}
}

func TestComputeSavedAmounts(t *testing.T) {
	goals := []model.SavingsGoal{{ID: 1}, {ID: 2}, {ID: 3}}
	txs := []model.Transaction{
		{Type: "expense", Category: "Goal Savings", Amount: dec("100"), SavingsGoalID: goalID(1)},
		{Type: "expense", Category: "Goal Savings", Amount: dec("25.50"), SavingsGoalID: goalID(1)},
		{Type: "expense", Category: "Goal Savings", Amount: dec("40"), SavingsGoalID: goalID(2)},
		{Type: "expense", Category: "Goal Savings", Amount: dec("10"), SavingsGoalID: goalID(9)},
		{Type: "expense", Category: "Goal Savings", Amount: dec("10"), SavingsGoalID: goalID(9)},
		{Type: "expense", Category: "General Savings", Amount: dec("70")},
		{Type: "income", Category: "Salary", Amount: dec("500")},
	}

	sums, orphans := ComputeSavedAmounts(goals, txs, DefaultClassifier)

	assert.Len(t, sums, 3)
	assert.True(t, dec("125.50").Equal(sums[1]))
	assert.True(t, dec("40").Equal(sums[2]))
	assert.True(t, sums[3].IsZero())
	assert.Equal(t, []int64{9}, orphans)
}

func TestComputeSavedAmounts_Idempotent(t *testing.T) {
	goals := []model.SavingsGoal{{ID: 1}}
	txs := []model.Transaction{
		{Type: "expense", Category: "Goal Savings", Amount: dec("30"), SavingsGoalID: goalID(1)},
	}

	first, _ := ComputeSavedAmounts(goals, txs, DefaultClassifier)
	goals[0].SavedAmount = first[1]
	second, _ := ComputeSavedAmounts(goals, txs, DefaultClassifier)

	assert.True(t, first[1].Equal(second[1]))
}

func TestGeneralSavingsTotal(t *testing.T) {
	txs := []model.Transaction{
		{Type: "expense", Category: "General Savings", Amount: dec("70")},
		{Type: "expense", Category: "General Savings", Amount: dec("30")},
		{Type: "income", Category: "General Savings", Amount: dec("1000")},
		{Type: "expense", Category: "Food", Amount: dec("5")},
	}

	assert.True(t, dec("100").Equal(GeneralSavingsTotal(txs, DefaultClassifier)))
}

func TestCustomClassifier(t *testing.T) {
	cls := NameClassifier{GoalSavings: "Sparziel", GeneralSavings: "Sparen"}
	tx := model.Transaction{Type: "expense", Category: "Sparziel", Amount: dec("5"), SavingsGoalID: goalID(4)}

	id, _, ok := Contribution(tx, cls)
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)

	_, _, ok = Contribution(tx, DefaultClassifier)
	assert.False(t, ok)
}

func TestEditDeltas(t *testing.T) {
	before := &model.Transaction{Type: "expense", Category: "Goal Savings", Amount: dec("100"), SavingsGoalID: goalID(1)}

	t.Run("amount change on same goal merges", func(t *testing.T) {
		after := *before
		after.Amount = dec("60")
		deltas := EditDeltas(before, &after, DefaultClassifier)
		assert.Len(t, deltas, 1)
		assert.Equal(t, int64(1), deltas[0].GoalID)
		assert.True(t, dec("-40").Equal(deltas[0].Amount))
	})

	t.Run("moving to another goal", func(t *testing.T) {
		after := *before
		after.SavingsGoalID = goalID(2)
		deltas := EditDeltas(before, &after, DefaultClassifier)
		assert.Len(t, deltas, 2)
		assert.Equal(t, Delta{GoalID: 1, Amount: dec("-100")}.GoalID, deltas[0].GoalID)
		assert.True(t, dec("-100").Equal(deltas[0].Amount))
		assert.Equal(t, int64(2), deltas[1].GoalID)
		assert.True(t, dec("100").Equal(deltas[1].Amount))
	})

	t.Run("unchanged contribution yields nothing", func(t *testing.T) {
		after := *before
		after.Description = "renamed"
		assert.Empty(t, EditDeltas(before, &after, DefaultClassifier))
	})

	t.Run("delete", func(t *testing.T) {
		deltas := EditDeltas(before, nil, DefaultClassifier)
		assert.Len(t, deltas, 1)
		assert.True(t, dec("-100").Equal(deltas[0].Amount))
	})

	t.Run("create non-goal", func(t *testing.T) {
		after := &model.Transaction{Type: "expense", Category: "Food", Amount: dec("9")}
		assert.Empty(t, EditDeltas(nil, after, DefaultClassifier))
	})
}
