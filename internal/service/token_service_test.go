package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planlabs/planner-api/internal/models"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

func signTestToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID: "user-7",
		Role:   models.RoleStaff,
		Email:  "staff@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService("test-secret")

	claims, err := svc.ValidateToken(signTestToken(t, "test-secret", jwt.SigningMethodHS256))
	require.NoError(t, err)
	assert.Equal(t, "user-7", claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.ValidateToken(signTestToken(t, "other-secret", jwt.SigningMethodHS256))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceRejectsWrongSigningMethod(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.ValidateToken(signTestToken(t, "test-secret", jwt.SigningMethodHS512))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
