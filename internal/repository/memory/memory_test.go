package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget_tracker/internal/model"
	"budget_tracker/internal/repository"
)

func TestStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	goal := &model.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(1000)}
	require.NoError(t, store.Goals().Create(ctx, goal))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		tx := &model.Transaction{ID: "a", Type: "expense", Category: "Goal Savings", Amount: decimal.NewFromInt(100), SavingsGoalID: &goal.ID}
		require.NoError(t, repos.Transactions.Create(ctx, tx))
		require.NoError(t, repos.Goals.AdjustSavedAmount(ctx, goal.ID, tx.Amount))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Transactions().FindByID(ctx, "a")
	assert.ErrorIs(t, err, model.ErrNotFound)
	g, err := store.Goals().FindByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, g.SavedAmount.IsZero())
}

func TestStore_WithinTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		return repos.Transactions.Create(ctx, &model.Transaction{ID: "a", Type: "income", Amount: decimal.NewFromInt(5)})
	})
	require.NoError(t, err)

	all, err := store.Transactions().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_DeleteGoalClearsReferences(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	goal := &model.SavingsGoal{Name: "Car", TargetAmount: decimal.NewFromInt(5000)}
	require.NoError(t, store.Goals().Create(ctx, goal))
	require.NoError(t, store.Transactions().Create(ctx, &model.Transaction{ID: "a", Type: "expense", Category: "Goal Savings", SavingsGoalID: &goal.ID}))

	require.NoError(t, store.Goals().Delete(ctx, goal.ID))

	tx, err := store.Transactions().FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, tx.SavingsGoalID)
	assert.ErrorIs(t, store.Goals().Delete(ctx, goal.ID), model.ErrNotFound)
}

func TestStore_FindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Transactions()

	require.NoError(t, repo.Create(ctx, &model.Transaction{ID: "old", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, repo.Create(ctx, &model.Transaction{ID: "new", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
}

func TestStore_UpdatePatch(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Transactions()
	goal := int64(1)
	require.NoError(t, repo.Create(ctx, &model.Transaction{ID: "a", Category: "Goal Savings", SavingsGoalID: &goal}))

	category := "Food"
	require.NoError(t, repo.Update(ctx, "a", model.TransactionPatch{Category: &category, ClearSavingsGoalID: true}))

	tx, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Food", tx.Category)
	assert.Nil(t, tx.SavingsGoalID)
	assert.ErrorIs(t, repo.Update(ctx, "missing", model.TransactionPatch{Category: &category}), model.ErrNotFound)
}

func TestStore_SettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Settings()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	s := model.DefaultSettings()
	require.NoError(t, repo.Save(ctx, &s))
	s.ExpenseCategories[0] = "mutated"

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.ExpenseCategories[0])
}

func TestStore_RollbackKeepsWritesOutsideTheUnit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	kept := &model.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(100)}
	require.NoError(t, store.Goals().Create(ctx, kept))
	doomed := &model.SavingsGoal{Name: "Bike", TargetAmount: decimal.NewFromInt(100)}
	require.NoError(t, store.Goals().Create(ctx, doomed))

	var outside model.SavingsGoal
	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Goals.AdjustSavedAmount(ctx, kept.ID, decimal.NewFromInt(5)))

		// Writes through the plain repositories do not belong to the unit
		outside = model.SavingsGoal{Name: "Car", TargetAmount: decimal.NewFromInt(500)}
		require.NoError(t, store.Goals().Create(ctx, &outside))
		require.NoError(t, store.Goals().Delete(ctx, doomed.ID))
		return errors.New("boom")
	})
	require.Error(t, err)

	goals, err := store.Goals().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, kept.ID, goals[0].ID)
	assert.True(t, goals[0].SavedAmount.IsZero())
	assert.Equal(t, outside.ID, goals[1].ID)

	next := &model.SavingsGoal{Name: "House", TargetAmount: decimal.NewFromInt(1)}
	require.NoError(t, store.Goals().Create(ctx, next))
	assert.Greater(t, next.ID, outside.ID)
}

func TestStore_RollbackUndoesCreateUpdateDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	goal := &model.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(100)}
	require.NoError(t, store.Goals().Create(ctx, goal))
	require.NoError(t, store.Transactions().Create(ctx, &model.Transaction{ID: "keep", Type: "expense", Category: "Goal Savings", Amount: decimal.NewFromInt(3), SavingsGoalID: &goal.ID}))
	require.NoError(t, store.Transactions().Create(ctx, &model.Transaction{ID: "gone", Type: "income", Amount: decimal.NewFromInt(1)}))

	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		amount := decimal.NewFromInt(9)
		require.NoError(t, repos.Transactions.Update(ctx, "keep", model.TransactionPatch{Amount: &amount}))
		require.NoError(t, repos.Transactions.Delete(ctx, "gone"))
		require.NoError(t, repos.Transactions.Create(ctx, &model.Transaction{ID: "new", Type: "income"}))
		require.NoError(t, repos.Goals.Delete(ctx, goal.ID))
		return errors.New("boom")
	})
	require.Error(t, err)

	keep, err := store.Transactions().FindByID(ctx, "keep")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(keep.Amount))
	require.NotNil(t, keep.SavingsGoalID)
	assert.Equal(t, goal.ID, *keep.SavingsGoalID)

	_, err = store.Transactions().FindByID(ctx, "gone")
	assert.NoError(t, err)
	_, err = store.Transactions().FindByID(ctx, "new")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = store.Goals().FindByID(ctx, goal.ID)
	assert.NoError(t, err)
}
