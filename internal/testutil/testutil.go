package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/auth"
	"github.com/hugh/orghub/internal/database/models"
	"github.com/hugh/orghub/internal/org"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations; partition tables are created dynamically
	if err := db.AutoMigrate(&models.Organization{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// NewTestLogger returns a logger that discards nothing but stays quiet at
// the default level.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

// NewTestOrgService wires a lifecycle service over the test database.
func NewTestOrgService(db *gorm.DB) *org.Service {
	return org.NewService(db, auth.PasswordHasher{}, NewTestLogger())
}

// CreateTestOrg provisions a complete test organization (metadata, partition
// and owning admin) through the lifecycle service.
func CreateTestOrg(t *testing.T, svc *org.Service, name string) *models.Organization {
	t.Helper()

	created, err := svc.Create(context.Background(), org.CreateInput{
		Name:          name,
		Description:   "Test organization",
		AdminEmail:    "admin-" + uuid.New().String()[:8] + "@example.com",
		AdminName:     "Test Admin",
		AdminPassword: "testpassword123",
	})
	if err != nil {
		t.Fatalf("failed to create test organization: %v", err)
	}
	return created
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 30*time.Minute)
}

// GenerateTestToken generates a valid token for the given admin/org pair
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, adminID, orgID uuid.UUID, email string) string {
	t.Helper()

	token, err := jwtService.GenerateToken(adminID, orgID, email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds the common test dependencies: a database, a lifecycle
// service, one provisioned organization and a token for its admin.
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	OrgService *org.Service
	Org        *models.Organization
	Token      string
}

// NewTestContext creates a complete test setup
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	orgService := NewTestOrgService(db)
	created := CreateTestOrg(t, orgService, "Test Organization "+uuid.New().String()[:8])
	token := GenerateTestToken(t, jwtService, created.AdminID, created.ID, "test@example.com")

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		OrgService: orgService,
		Org:        created,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
