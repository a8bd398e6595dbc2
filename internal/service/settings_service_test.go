package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget_tracker/internal/model"
)

func TestGetSettings_StoresDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Contains(t, s.ExpenseCategories, model.CategoryGoalSavings)
	assert.Contains(t, s.IncomeCategories, "Salary")

	stored, err := env.store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ExpenseCategories, stored.ExpenseCategories)
}

func TestGetSettings_MergesMissingSections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Settings().Save(ctx, &model.Settings{
		MonthlySavingsGoal: decimal.NewFromInt(300),
		ExpenseCategories:  []string{"Food"},
	}))

	s, err := env.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, s.ExpenseCategories)
	assert.NotEmpty(t, s.IncomeCategories)
	assert.Equal(t, "fa-utensils", s.Icon("expense", "Food"))
	assert.Equal(t, "fa-briefcase", s.Icon("income", "Lottery"))
}

func TestUpdateMonthlySavingsGoal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.settings.UpdateMonthlySavingsGoal(ctx, "250.75")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250.75").Equal(s.MonthlySavingsGoal))

	again, err := env.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250.75").Equal(again.MonthlySavingsGoal))

	_, err = env.settings.UpdateMonthlySavingsGoal(ctx, "abc")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = env.settings.UpdateMonthlySavingsGoal(ctx, "-1")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = env.settings.UpdateMonthlySavingsGoal(ctx, "12.345")
	assert.ErrorIs(t, err, model.ErrValidation)
}
