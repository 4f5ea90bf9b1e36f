package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/herolabs/hokhub/internal/auth"
)

// AuthHandler serves contributor registration and login.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler wires the REST layer to the auth service.
func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

// HandleRegister handles POST /api/v1/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.auth.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			respondError(w, http.StatusConflict, "Email already registered", nil)
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondError(w, http.StatusBadRequest, "Email and password are required", nil)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to register", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

type apiLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req apiLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
