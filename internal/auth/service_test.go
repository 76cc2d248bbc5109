package auth_test

import (
	"context"
	"testing"

	"github.com/hugh/orghub/internal/auth"
	"github.com/hugh/orghub/internal/org"
	"github.com/hugh/orghub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func provisionOrg(t *testing.T, db *gorm.DB, name, email, password string) *org.Service {
	t.Helper()

	svc := testutil.NewTestOrgService(db)
	_, err := svc.Create(context.Background(), org.CreateInput{
		Name:          name,
		Description:   "Login test organization",
		AdminEmail:    email,
		AdminName:     "Login Admin",
		AdminPassword: password,
	})
	require.NoError(t, err)
	return svc
}

func TestServiceLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	provisionOrg(t, db, "First Org", "first@example.com", "firstpassword")
	provisionOrg(t, db, "Second Org", "second@example.com", "secondpassword")

	authService := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := context.Background()

	t.Run("logs in admin from first partition", func(t *testing.T) {
		resp, err := authService.Login(ctx, auth.LoginInput{
			Email:    "first@example.com",
			Password: "firstpassword",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
	})

	t.Run("scan reaches admins in later partitions", func(t *testing.T) {
		resp, err := authService.Login(ctx, auth.LoginInput{
			Email:    "second@example.com",
			Password: "secondpassword",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("token carries the admin's organization", func(t *testing.T) {
		resp, err := authService.Login(ctx, auth.LoginInput{
			Email:    "second@example.com",
			Password: "secondpassword",
		})
		require.NoError(t, err)

		jwtService := testutil.CreateTestJWTService()
		claims, err := jwtService.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.AdminID, claims.AdminID)
		assert.Equal(t, resp.OrganizationID, claims.OrganizationID)
		assert.Equal(t, "second@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := authService.Login(ctx, auth.LoginInput{
			Email:    "first@example.com",
			Password: "wrongpassword",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as a wrong password", func(t *testing.T) {
		_, err := authService.Login(ctx, auth.LoginInput{
			Email:    "nobody@example.com",
			Password: "firstpassword",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("email matching is case-insensitive", func(t *testing.T) {
		resp, err := authService.Login(ctx, auth.LoginInput{
			Email:    "FIRST@example.com",
			Password: "firstpassword",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})
}

func TestServiceLoginDeletedOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := provisionOrg(t, db, "Doomed Org", "doomed@example.com", "doomedpassword")
	authService := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := context.Background()

	resp, err := authService.Login(ctx, auth.LoginInput{
		Email:    "doomed@example.com",
		Password: "doomedpassword",
	})
	require.NoError(t, err)

	created, err := svc.Get(ctx, resp.OrganizationID)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, created.ID, created.AdminID)
	require.NoError(t, err)

	// The admin's partition is gone; the scan skips the soft-deleted shell.
	_, err = authService.Login(ctx, auth.LoginInput{
		Email:    "doomed@example.com",
		Password: "doomedpassword",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestServiceLoginCrossOrganizationMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := provisionOrg(t, db, "Linked Org", "linked@example.com", "linkedpassword")
	_ = svc

	// Corrupt the link: point the admin row at a different organization than
	// the partition it lives in.
	var partition string
	require.NoError(t, db.Raw(
		"SELECT partition_key FROM organizations WHERE name = ?", "Linked Org",
	).Scan(&partition).Error)
	require.NotEmpty(t, partition)
	require.NoError(t, db.Exec(
		"UPDATE "+partition+" SET organization_id = ?", "00000000-0000-0000-0000-000000000001",
	).Error)

	authService := auth.NewService(db, testutil.CreateTestJWTService())
	_, err := authService.Login(context.Background(), auth.LoginInput{
		Email:    "linked@example.com",
		Password: "linkedpassword",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
