package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/api"
	"github.com/hugh/orghub/internal/api/dto"
	"github.com/hugh/orghub/internal/auth"
	"github.com/hugh/orghub/internal/org"
	"github.com/hugh/orghub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, ts *testutil.TestSetup) http.Handler {
	t.Helper()

	return api.NewRouter(api.RouterConfig{
		DB:          ts.DB,
		Logger:      testutil.NewTestLogger(),
		JWTService:  ts.JWTService,
		AuthService: auth.NewService(ts.DB, ts.JWTService),
		OrgService:  ts.OrgService,
	})
}

func createPayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":           name,
		"description":    "Created over HTTP",
		"admin_email":    "admin-" + uuid.New().String()[:8] + "@example.com",
		"admin_name":     "HTTP Admin",
		"admin_password": "httppassword123",
	}
}

func TestCreateOrganizationEndpoint(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	router := newTestRouter(t, ts)

	t.Run("creates organization", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/organizations", createPayload("Wayne Enterprises"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp struct {
			Success bool                     `json:"success"`
			Data    dto.OrganizationResponse `json:"data"`
			Message string                   `json:"message"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "Wayne Enterprises", resp.Data.Name)
		assert.Equal(t, "org_wayne_enterprises", resp.Data.PartitionKey)
		assert.NotEmpty(t, resp.Data.AdminID)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/organizations", createPayload("Wayne Enterprises"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)

		var resp dto.ErrorEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.False(t, resp.Success)
		assert.Equal(t, "Organization name already exists", resp.Error)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/organizations", map[string]interface{}{
			"name":           "",
			"admin_email":    "not-an-email",
			"admin_name":     "X",
			"admin_password": "short",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorEnvelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Contains(t, resp.Detail, "name")
		assert.Contains(t, resp.Detail, "admin_email")
		assert.Contains(t, resp.Detail, "admin_password")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/organizations", nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListOrganizationsEndpoint(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	router := newTestRouter(t, ts)

	for i := 0; i < 3; i++ {
		testutil.CreateTestOrg(t, ts.OrgService, fmt.Sprintf("Listed Org %d", i))
	}

	t.Run("lists with defaults", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/organizations", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Success bool                         `json:"success"`
			Data    dto.OrganizationListResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 4, resp.Data.Count) // fixture org + 3
		assert.Equal(t, 0, resp.Data.Skip)
		assert.Equal(t, 100, resp.Data.Limit)
	})

	t.Run("respects skip and limit", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/organizations?skip=1&limit=2", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data dto.OrganizationListResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 2, resp.Data.Count)
		assert.Equal(t, "Listed Org 0", resp.Data.Organizations[0].Name)
	})
}

func TestGetOrganizationEndpoint(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	router := newTestRouter(t, ts)

	t.Run("found", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/organizations/"+ts.Org.ID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data dto.OrganizationResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, ts.Org.ID.String(), resp.Data.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/organizations/"+uuid.New().String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, "/api/v1/organizations/not-a-uuid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateOrganizationEndpoint(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	router := newTestRouter(t, ts)

	path := "/api/v1/organizations/" + ts.Org.ID.String()

	t.Run("requires token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodPut, path, map[string]string{"description": "nope"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("owner updates description", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]string{"description": "Fresh description"}, ts.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Data dto.OrganizationResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Fresh description", resp.Data.Description)
	})

	t.Run("rename migrates the partition", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]string{"name": "Renamed Over HTTP"}, ts.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Data dto.OrganizationResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Renamed Over HTTP", resp.Data.Name)
		assert.Equal(t, "org_renamed_over_http", resp.Data.PartitionKey)
	})

	t.Run("another admin's token is forbidden", func(t *testing.T) {
		other := testutil.CreateTestOrg(t, ts.OrgService, "Interloper Org")
		otherToken := testutil.GenerateTestToken(t, ts.JWTService, other.AdminID, other.ID, "other@example.com")

		req := testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]string{"description": "hijack"}, otherToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("rename onto an existing name conflicts", func(t *testing.T) {
		testutil.CreateTestOrg(t, ts.OrgService, "Occupied Name")

		req := testutil.AuthenticatedRequest(t, http.MethodPut, path, map[string]string{"name": "Occupied Name"}, ts.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestDeleteOrganizationEndpoint(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	router := newTestRouter(t, ts)

	path := "/api/v1/organizations/" + ts.Org.ID.String()

	t.Run("requires token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodDelete, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("another admin's token is forbidden", func(t *testing.T) {
		other := testutil.CreateTestOrg(t, ts.OrgService, "Bystander Org")
		otherToken := testutil.GenerateTestToken(t, ts.JWTService, other.AdminID, other.ID, "bystander@example.com")

		req := testutil.AuthenticatedRequest(t, http.MethodDelete, path, nil, otherToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner deletes, audit record returned", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodDelete, path, nil, ts.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Success bool             `json:"success"`
			Data    org.DeleteResult `json:"data"`
			Message string           `json:"message"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, ts.Org.ID, resp.Data.OrganizationID)
		assert.Equal(t, ts.Org.AdminID, resp.Data.DeletedBy)
		assert.True(t, resp.Data.AuditRetained)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodDelete, path, nil, ts.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("deleted organization still readable", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		// The shell stays for auditing but is reported as gone.
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
