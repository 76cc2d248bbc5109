package dto

import "github.com/hugh/orghub/internal/api/validation"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type TokenDTO struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	AdminID        string `json:"admin_id"`
	OrganizationID string `json:"organization_id"`
}
