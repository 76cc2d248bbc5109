package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/api/validation"
	"github.com/hugh/orghub/internal/database/models"
)

type CreateOrganizationRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	AdminEmail    string `json:"admin_email"`
	AdminName     string `json:"admin_name"`
	AdminPassword string `json:"admin_password"`
}

func (r CreateOrganizationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	} else if !validation.IsValidOrgName(r.Name) {
		errors["name"] = "Name must be 1-100 alphanumeric characters (underscores, hyphens, spaces allowed)"
	}
	if len(r.Description) > 500 {
		errors["description"] = "Description must be at most 500 characters"
	}
	if r.AdminEmail == "" {
		errors["admin_email"] = "Admin email is required"
	} else if !validation.IsValidEmail(r.AdminEmail) {
		errors["admin_email"] = "Invalid email format"
	}
	if r.AdminName == "" {
		errors["admin_name"] = "Admin name is required"
	} else if len(r.AdminName) > 100 {
		errors["admin_name"] = "Admin name must be at most 100 characters"
	}
	if r.AdminPassword == "" {
		errors["admin_password"] = "Admin password is required"
	} else if ok, msg := validation.IsValidPassword(r.AdminPassword); !ok {
		errors["admin_password"] = msg
	}

	return errors
}

type UpdateOrganizationRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateOrganizationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && !validation.IsValidOrgName(*r.Name) {
		errors["name"] = "Name must be 1-100 alphanumeric characters (underscores, hyphens, spaces allowed)"
	}
	if r.Description != nil && len(*r.Description) > 500 {
		errors["description"] = "Description must be at most 500 characters"
	}

	return errors
}

type OrganizationResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	PartitionKey string     `json:"partition_key"`
	AdminID      string     `json:"admin_id,omitempty"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func ToOrganizationResponse(org *models.Organization) OrganizationResponse {
	resp := OrganizationResponse{
		ID:           org.ID.String(),
		Name:         org.Name,
		Description:  org.Description,
		PartitionKey: org.PartitionKey,
		CreatedAt:    org.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    org.UpdatedAt.Format(time.RFC3339),
		IsDeleted:    org.IsDeleted,
		DeletedAt:    org.DeletedAt,
	}
	if org.AdminID != uuid.Nil {
		resp.AdminID = org.AdminID.String()
	}
	return resp
}

type OrganizationListResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
	Count         int                    `json:"count"`
	Skip          int                    `json:"skip"`
	Limit         int                    `json:"limit"`
}
