package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTUtil_GenerateAndValidate(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)

	tokenString, err := jwtUtil.GenerateToken(7, "alice", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -1)

	tokenString, err := jwtUtil.GenerateToken(1, "bob", "user")
	require.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	tokenString, _ := NewJWTUtil("secret1", 1).GenerateToken(1, "bob", "user")

	_, err := NewJWTUtil("secret2", 1).ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)
	claims := &JWTClaims{
		UserID:   1,
		Username: "bob",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}
