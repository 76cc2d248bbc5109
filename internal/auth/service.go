package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/store"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers a wrong password, an unknown email and a
// corrupted admin/organization link alike, so a caller cannot enumerate
// accounts from the error.
var ErrInvalidCredentials = errors.New("invalid credentials")

// orgScanCap bounds the authentication scan. Logins are O(number of
// organizations) because each partition has to be probed for the email; a
// global email index would remove that cost but also the strict partition
// isolation, so the linear scan is kept as a known limit.
const orgScanCap = 1000

type Service struct {
	db   *gorm.DB
	orgs *store.OrganizationStore
	jwt  *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{
		db:   db,
		orgs: store.NewOrganizationStore(db),
		jwt:  jwt,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenResponse struct {
	AccessToken    string    `json:"access_token"`
	TokenType      string    `json:"token_type"`
	AdminID        uuid.UUID `json:"admin_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// Login locates the admin by probing each active organization's partition for
// the email, verifies the password and issues a session token. Email is
// assumed unique across the system in practice, so the scan stops at the
// first partition containing it.
func (s *Service) Login(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	orgs, err := s.orgs.List(ctx, 0, orgScanCap, false)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	for _, org := range orgs {
		admins := store.NewAdminStore(s.db, org.PartitionKey)
		admin, err := admins.FindByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("probing partition %s: %w", org.PartitionKey, err)
		}

		if !CheckPassword(input.Password, admin.HashedPassword) {
			return nil, ErrInvalidCredentials
		}

		// A record pointing at a different organization than the partition it
		// lives in means corrupted data, not a usable login.
		if admin.OrganizationID != org.ID {
			return nil, ErrInvalidCredentials
		}

		token, err := s.jwt.GenerateToken(admin.ID, org.ID, admin.Email)
		if err != nil {
			return nil, fmt.Errorf("issuing token: %w", err)
		}

		return &TokenResponse{
			AccessToken:    token,
			TokenType:      "bearer",
			AdminID:        admin.ID,
			OrganizationID: org.ID,
		}, nil
	}

	return nil, ErrInvalidCredentials
}
