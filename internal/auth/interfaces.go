package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/org"
)

// Authenticator defines the interface for admin authentication.
type Authenticator interface {
	Login(ctx context.Context, input LoginInput) (*TokenResponse, error)
}

// TokenService defines the interface for session token operations.
type TokenService interface {
	GenerateToken(adminID, orgID uuid.UUID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator        = (*Service)(nil)
	_ TokenService         = (*JWTService)(nil)
	_ org.CredentialHasher = PasswordHasher{}
)
