package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget_tracker/internal/model"
	"budget_tracker/internal/repository"
)

func TestCreateGoal_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, req := range []model.SavingsGoalRequest{
		{Name: "  ", TargetAmount: "100"},
		{Name: "Trip", TargetAmount: "0"},
		{Name: "Trip", TargetAmount: "-5"},
		{Name: "Trip", TargetAmount: "lots"},
		{Name: "Trip", TargetAmount: "100.005"},
		{Name: "Trip", TargetAmount: "1000000000000"},
	} {
		_, err := env.goals.CreateGoal(ctx, req)
		assert.ErrorIs(t, err, model.ErrValidation, "request %+v", req)
	}

	goals, err := env.goals.ListGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestCreateGoal_StartsAtZero(t *testing.T) {
	env := newTestEnv(t)
	goal := env.createGoal(t, "Trip", "1200.50")

	assert.Equal(t, "Trip", goal.Name)
	assert.True(t, decimal.RequireFromString("1200.5").Equal(goal.TargetAmount))
	assert.True(t, goal.SavedAmount.IsZero())
}

func TestUpdateGoal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goal := env.createGoal(t, "Trip", "1000")
	env.saveToGoal(t, goal.ID, "100", "2024-03-01")

	updated, err := env.goals.UpdateGoal(ctx, goal.ID, model.SavingsGoalRequest{Name: "Japan trip", TargetAmount: "3000"})
	require.NoError(t, err)
	assert.Equal(t, "Japan trip", updated.Name)
	assert.True(t, decimal.NewFromInt(100).Equal(updated.SavedAmount))

	_, err = env.goals.UpdateGoal(ctx, 999, model.SavingsGoalRequest{Name: "x", TargetAmount: "1"})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestDeleteGoal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goal := env.createGoal(t, "Trip", "1000")

	require.NoError(t, env.goals.DeleteGoal(ctx, goal.ID))
	assert.ErrorIs(t, env.goals.DeleteGoal(ctx, goal.ID), ErrGoalNotFound)
	_, err := env.goals.GetGoal(ctx, goal.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRecalculate_CorrectsDriftAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goal := env.createGoal(t, "Trip", "1000")
	env.saveToGoal(t, goal.ID, "100", "2024-03-01")

	require.NoError(t, env.store.Goals().AdjustSavedAmount(ctx, goal.ID, decimal.NewFromInt(7)))
	require.True(t, decimal.NewFromInt(107).Equal(env.savedAmount(t, goal.ID)))

	first, err := env.goals.Recalculate(ctx)
	require.NoError(t, err)
	second, err := env.goals.Recalculate(ctx)
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(first[0].SavedAmount))
	assert.True(t, first[0].SavedAmount.Equal(second[0].SavedAmount))
	assert.True(t, decimal.NewFromInt(100).Equal(env.savedAmount(t, goal.ID)))
}

func TestRecalculate_IgnoresOrphans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goal := env.createGoal(t, "Trip", "1000")
	tx := env.saveToGoal(t, goal.ID, "100", "2024-03-01")
	require.NotNil(t, tx.SavingsGoalID)

	require.NoError(t, env.goals.DeleteGoal(ctx, goal.ID))

	goals, err := env.goals.Recalculate(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestCreateGoal_SurvivesFailedTransactionWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var created *model.SavingsGoal
	err := env.store.WithinTx(ctx, func(repository.Repositories) error {
		created = env.createGoal(t, "Car", "5000")
		return errors.New("transaction write failed")
	})
	require.Error(t, err)

	goals, err := env.goals.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, created.ID, goals[0].ID)
}
