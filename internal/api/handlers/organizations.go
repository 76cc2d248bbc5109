package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/api/dto"
	"github.com/hugh/orghub/internal/api/middleware"
	"github.com/hugh/orghub/internal/org"
)

type OrganizationHandler struct {
	orgService *org.Service
}

func NewOrganizationHandler(orgService *org.Service) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Create handles POST /api/v1/organizations
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	created, err := h.orgService.Create(r.Context(), org.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		AdminEmail:    req.AdminEmail,
		AdminName:     req.AdminName,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		writeOrgError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.Success(
		dto.ToOrganizationResponse(created),
		"Organization created successfully",
	))
}

// List handles GET /api/v1/organizations
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	orgs, err := h.orgService.List(r.Context(), skip, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.Error("Failed to list organizations"))
		return
	}

	responses := make([]dto.OrganizationResponse, len(orgs))
	for i := range orgs {
		responses[i] = dto.ToOrganizationResponse(&orgs[i])
	}

	writeJSON(w, http.StatusOK, dto.Success(dto.OrganizationListResponse{
		Organizations: responses,
		Count:         len(responses),
		Skip:          skip,
		Limit:         limit,
	}, ""))
}

// Get handles GET /api/v1/organizations/{id}
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.orgService.Get(r.Context(), id)
	if err != nil {
		writeOrgError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(dto.ToOrganizationResponse(found), ""))
}

// Update handles PUT /api/v1/organizations/{id}
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	adminID := middleware.GetAdminID(r.Context())
	updated, err := h.orgService.Update(r.Context(), id, org.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	}, adminID)
	if err != nil {
		writeOrgError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(
		dto.ToOrganizationResponse(updated),
		"Organization updated successfully",
	))
}

// Delete handles DELETE /api/v1/organizations/{id}
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	adminID := middleware.GetAdminID(r.Context())
	result, err := h.orgService.Delete(r.Context(), id, adminID)
	if err != nil {
		writeOrgError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(result, "Organization deleted successfully"))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid organization ID"))
		return uuid.Nil, false
	}
	return id, true
}

// writeOrgError maps lifecycle errors to status codes: conflicts 409, missing
// 404, ownership 403, everything else the generic 500.
func writeOrgError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, org.ErrNameExists):
		writeJSON(w, http.StatusConflict, dto.Error("Organization name already exists"))
	case errors.Is(err, org.ErrNameArchived):
		writeJSON(w, http.StatusConflict, dto.Error("Organization name was previously used and is archived. Please choose a different name."))
	case errors.Is(err, org.ErrPartitionExists):
		writeJSON(w, http.StatusConflict, dto.Error("Partition already exists"))
	case errors.Is(err, org.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.Error("Organization not found"))
	case errors.Is(err, org.ErrForbidden):
		writeJSON(w, http.StatusForbidden, dto.Error("Not authorized to manage this organization"))
	case errors.Is(err, org.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, dto.Error("Organization name contains no usable characters"))
	default:
		writeJSON(w, http.StatusInternalServerError, dto.Error("Internal server error"))
	}
}
