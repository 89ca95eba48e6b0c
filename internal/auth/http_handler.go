package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Register handles POST /auth/register
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	u, err := h.service.Register(r.Context(), req.Email, req.FullName, req.Password)
	switch {
	case err == nil:
		httpx.JSONSuccessCreated(w, u)
	case errors.Is(err, user.ErrAlreadyExists):
		httpx.JSONError(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists", nil)
	default:
		httpx.JSONError(w, http.StatusUnprocessableEntity, "WEAK_PASSWORD", err.Error(), nil)
	}
}

// Login handles POST /auth/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	access, refresh, expiresIn, err := h.service.Login(r.Context(), req.Email, req.Password, r.UserAgent(), r.RemoteAddr)
	switch {
	case err == nil:
		httpx.JSONSuccess(w, tokenResponse{AccessToken: access, RefreshToken: refresh, ExpiresIn: expiresIn}, nil)
	case errors.Is(err, ErrLocked):
		httpx.JSONError(w, http.StatusForbidden, "ACCOUNT_LOCKED", "Account is locked", nil)
	case errors.Is(err, ErrUnauthorized):
		httpx.JSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Refresh handles POST /auth/refresh
func (h *HTTPHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	access, refresh, expiresIn, err := h.service.Refresh(r.Context(), req.RefreshToken)
	switch {
	case err == nil:
		httpx.JSONSuccess(w, tokenResponse{AccessToken: access, RefreshToken: refresh, ExpiresIn: expiresIn}, nil)
	case errors.Is(err, ErrUnauthorized):
		httpx.JSONError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Logout handles POST /auth/logout
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
