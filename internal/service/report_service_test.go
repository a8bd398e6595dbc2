package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget_tracker/internal/model"
)

func TestGenerateReport_MonthlyBudget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.reports.(*reportService).now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	goal := env.createGoal(t, "Trip", "1000")
	for _, req := range []model.CreateTransactionRequest{
		{Type: "income", Category: "Salary", Item: "Salary", Amount: "500", Date: "2024-03-05"},
		{Type: "expense", Category: "Food", Item: "Lunch", Amount: "50", Date: "2024-03-06"},
		{Type: "expense", Category: "General Savings", Item: "Buffer", Amount: "20", Date: "2024-02-06"},
	} {
		_, err := env.txs.CreateTransaction(ctx, req)
		require.NoError(t, err)
	}
	env.saveToGoal(t, goal.ID, "100", "2024-03-07")

	view, err := env.reports.GenerateReport(ctx, model.ReportRequest{Period: "monthly"})
	require.NoError(t, err)

	rep := view.Report
	assert.Equal(t, "2024-03-01", rep.StartDate)
	assert.Equal(t, "2024-03-31", rep.EndDate)
	assert.True(t, decimal.NewFromInt(500).Equal(rep.TotalIncome))
	assert.True(t, decimal.NewFromInt(150).Equal(rep.TotalExpense))
	assert.True(t, decimal.NewFromInt(100).Equal(rep.TotalGoalSavings))
	assert.True(t, decimal.NewFromInt(350).Equal(rep.Balance))

	require.NotNil(t, view.Budget)
	assert.True(t, decimal.NewFromInt(500).Equal(view.Budget.TotalBudget))
	assert.True(t, decimal.NewFromInt(100).Equal(view.Budget.SavingsGoal))
	assert.True(t, decimal.NewFromInt(250).Equal(view.Budget.RemainingSpending))
	assert.True(t, decimal.NewFromInt(20).Equal(view.GeneralSavingsTotal))

	require.Len(t, view.SavingsGoals, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(view.SavingsGoals[0].ProgressPercent))
	assert.Equal(t, 3, view.Displayed.TotalTransactions)
}

func TestGenerateReport_SearchNarrowsDisplayedExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.reports.(*reportService).now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	for _, req := range []model.CreateTransactionRequest{
		{Type: "expense", Category: "Food", Item: "Lunch", Amount: "10", Date: "2024-03-01"},
		{Type: "expense", Category: "Coffee", Item: "Latte", Amount: "4", Date: "2024-03-02"},
	} {
		_, err := env.txs.CreateTransaction(ctx, req)
		require.NoError(t, err)
	}

	view, err := env.reports.GenerateReport(ctx, model.ReportRequest{Period: "custom", StartDate: "2024-03-01", EndDate: "2024-03-31", SearchQuery: "coffee"})
	require.NoError(t, err)

	assert.Nil(t, view.Budget)
	assert.True(t, decimal.NewFromInt(14).Equal(view.Report.TotalExpense))
	assert.True(t, decimal.NewFromInt(4).Equal(view.DisplayedTotalExpense))
	assert.Equal(t, 1, view.Displayed.TotalTransactions)
}

func TestGenerateReport_InvalidCustomRange(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reports.GenerateReport(context.Background(), model.ReportRequest{Period: "custom", StartDate: "2024-03-31", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, model.ErrValidation)
}
