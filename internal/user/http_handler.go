package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/member"
)

// HTTPHandler serves the librarian admin surface for accounts.
type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=MEMBER LIBRARIAN"`
}

// List handles GET /admin/users
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, users, nil)
}

// ChangeRole handles PUT /admin/users/{id}/role
func (h *HTTPHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	err := h.service.ChangeRole(r.Context(), r.PathValue("id"), req.Role)
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	case errors.Is(err, ErrInvalidRole):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "INVALID_ROLE", "Unknown role", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Lock handles POST /admin/users/{id}/lock
func (h *HTTPHandler) Lock(w http.ResponseWriter, r *http.Request) {
	err := h.service.Lock(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	h.writeLockResult(w, err)
}

// Unlock handles POST /admin/users/{id}/unlock
func (h *HTTPHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unlock(r.Context(), r.PathValue("id"))
	h.writeLockResult(w, err)
}

func (h *HTTPHandler) writeLockResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	case errors.Is(err, ErrSelf):
		httpx.JSONError(w, http.StatusConflict, "SELF_FORBIDDEN", "You cannot lock your own account", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Delete handles DELETE /admin/users/{id}. Refused while the linked member
// holds an active loan; otherwise the whole history is purged with the
// account.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound), errors.Is(err, member.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	case errors.Is(err, ErrSelf):
		httpx.JSONError(w, http.StatusConflict, "SELF_FORBIDDEN", "You cannot delete your own account", nil)
	case errors.Is(err, ErrLastLibrarian):
		httpx.JSONError(w, http.StatusConflict, "LAST_LIBRARIAN", "Cannot delete the only librarian", nil)
	case errors.Is(err, member.ErrActiveLoan):
		httpx.JSONError(w, http.StatusConflict, "ACTIVE_LOAN", "User has an active loan and cannot be deleted", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
