package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hugh/orghub/internal/api/dto"
	"github.com/hugh/orghub/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
}

func NewAuthHandler(authService auth.Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, dto.Error("Incorrect email or password"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Login failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(dto.TokenDTO{
		AccessToken:    resp.AccessToken,
		TokenType:      resp.TokenType,
		AdminID:        resp.AdminID.String(),
		OrganizationID: resp.OrganizationID.String(),
	}, "Login successful"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
