package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/model"
)

func testUser() *model.User {
	role := model.RoleAnalyst
	return &model.User{
		Base:     model.Base{ID: uuid.New()},
		Email:    "analyst@example.com",
		RoleName: &role,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Hour, 24*time.Hour, "analytics-api")
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleAnalyst, claims.Role)
	assert.Equal(t, "analytics-api", claims.Issuer)
}

func TestRefreshTokenUsesSeparateSecret(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Hour, 24*time.Hour, "analytics-api")
	user := testUser()

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	// a refresh token must not validate as an access token
	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", -time.Minute, 24*time.Hour, "analytics-api")

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTamperedSecretRejected(t *testing.T) {
	issuer := NewJWTService("access-secret", "refresh-secret", time.Hour, 24*time.Hour, "analytics-api")
	validator := NewJWTService("other-secret", "refresh-secret", time.Hour, 24*time.Hour, "analytics-api")

	token, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}
