package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTServiceGenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 30*time.Minute)

	adminID := uuid.New()
	orgID := uuid.New()
	email := "admin@example.com"

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(adminID, orgID, email)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, adminID, claims.AdminID)
		assert.Equal(t, orgID, claims.OrganizationID)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("subject is the admin id", func(t *testing.T) {
		token, err := jwtService.GenerateToken(adminID, orgID, email)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, adminID.String(), claims.Subject)
		assert.Equal(t, "orghub", claims.Issuer)
	})
}

func TestJWTServiceValidateToken(t *testing.T) {
	adminID := uuid.New()
	orgID := uuid.New()

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		issuer := auth.NewJWTService("secret-one", 30*time.Minute)
		verifier := auth.NewJWTService("secret-two", 30*time.Minute)

		token, err := issuer.GenerateToken(adminID, orgID, "a@example.com")
		require.NoError(t, err)

		_, err = verifier.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", -time.Minute)

		token, err := jwtService.GenerateToken(adminID, orgID, "a@example.com")
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 30*time.Minute)
		_, err := jwtService.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.CheckPassword("correct horse battery staple", hash))
	assert.False(t, auth.CheckPassword("wrong password", hash))
}
