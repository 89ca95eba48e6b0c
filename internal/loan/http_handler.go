package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
	"libraryapi/internal/inventory"
	"libraryapi/internal/member"
	"libraryapi/internal/user"
)

type HTTPHandler struct {
	service *Service
	members *member.Service
	users   *user.Service
}

func NewHTTPHandler(service *Service, members *member.Service, users *user.Service) *HTTPHandler {
	return &HTTPHandler{service: service, members: members, users: users}
}

type checkoutRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	MemberID string `json:"member_id" validate:"required,uuid"`
}

// Checkout handles POST /loans (librarian) — the direct checkout path that
// bypasses the request queue.
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	l, err := h.service.Checkout(r.Context(), req.BookID, req.MemberID)
	switch {
	case err == nil:
		httpx.JSONSuccessCreated(w, l)
	case errors.Is(err, inventory.ErrOutOfStock):
		httpx.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", "No copies available", nil)
	case errors.Is(err, inventory.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Return handles POST /loans/{id}/return (librarian)
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Return(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		httpx.JSONSuccess(w, l, nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
	case errors.Is(err, ErrAlreadyReturned):
		httpx.JSONError(w, http.StatusConflict, "ALREADY_RETURNED", "Loan was already returned", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Delete handles DELETE /loans/{id} (librarian)
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
	case errors.Is(err, ErrActive):
		httpx.JSONError(w, http.StatusConflict, "LOAN_ACTIVE", "Loan is still active; return the book first", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// List handles GET /loans (librarian), newest first.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	loans, total, err := h.service.List(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, loans, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// ListMine handles GET /loans/mine (member): active loans first, then history.
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	m, err := h.members.Resolve(r.Context(), userID, name, u.Email)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	loans, err := h.service.ListByMember(r.Context(), m.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, loans, nil)
}
