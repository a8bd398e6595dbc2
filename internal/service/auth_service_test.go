package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/repository/memory"
	"budget_tracker/internal/utils"
)

func newAuthService() (AuthService, *utils.JWTUtil) {
	jwtUtil := utils.NewJWTUtil("test-secret", 1)
	return NewAuthService(memory.NewStore().Users(), jwtUtil, "admin", zap.NewNop()), jwtUtil
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtUtil := newAuthService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	claims, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	_, _, err = svc.Register(ctx, "alice", "", "other123")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	loggedIn, _, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_InitialAdmin(t *testing.T) {
	svc, _ := newAuthService()

	user, _, err := svc.Register(context.Background(), "admin", "", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}
