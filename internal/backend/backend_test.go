package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"budget_tracker/internal/config"
	"budget_tracker/internal/model"
	"budget_tracker/internal/utils"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{DataBackend: config.BackendMemory, Timezone: "UTC", InitialAdminUsername: "root"}
	stores, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer stores.Close()
	require.NoError(t, stores.Ping(context.Background()))

	svc := NewServices(stores, cfg, utils.NewJWTUtil("secret", 1), zap.NewNop())
	user, _, err := svc.Auth.Register(context.Background(), "root", "", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	goal, err := svc.Goals.CreateGoal(context.Background(), model.SavingsGoalRequest{Name: "Trip", TargetAmount: "100"})
	require.NoError(t, err)
	id := goal.ID
	_, err = svc.Transactions.CreateTransaction(context.Background(), model.CreateTransactionRequest{
		Type: "expense", Category: model.CategoryGoalSavings, Item: "Transfer", Amount: "40", Date: "2024-01-02", SavingsGoalID: &id,
	})
	require.NoError(t, err)

	got, err := svc.Goals.GetGoal(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "40", got.SavedAmount.String())
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DataBackend: "sheets"}, zap.NewNop())
	assert.Error(t, err)
}
