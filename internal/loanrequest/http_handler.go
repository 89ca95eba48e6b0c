package loanrequest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

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

type submitRequest struct {
	BookID            string `json:"book_id" validate:"required,uuid"`
	DesiredReturnDate string `json:"desired_return_date" validate:"omitempty,len=10"`
}

type denyRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// Submit handles POST /requests (member)
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	var desired *time.Time
	if req.DesiredReturnDate != "" {
		d, err := time.Parse("2006-01-02", req.DesiredReturnDate)
		if err != nil {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "INVALID_DATE", "Desired return date must be YYYY-MM-DD", nil)
			return
		}
		desired = &d
	}

	m, err := h.resolveMember(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	created, err := h.service.Submit(r.Context(), m.ID, req.BookID, desired)
	switch {
	case err == nil:
		httpx.JSONSuccessCreated(w, created)
	case errors.Is(err, ErrInvalidDate):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "INVALID_DATE", "Desired return date must be between tomorrow and 30 days out", nil)
	case errors.Is(err, ErrDuplicatePending):
		httpx.JSONError(w, http.StatusConflict, "DUPLICATE_PENDING", "You already have a pending request for this book", nil)
	case errors.Is(err, ErrActiveLoan):
		httpx.JSONError(w, http.StatusConflict, "ACTIVE_LOAN_EXISTS", "You already have this book on loan", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Approve handles POST /requests/{id}/approve (librarian)
func (h *HTTPHandler) Approve(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Approve(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r))
	switch {
	case err == nil:
		httpx.JSONSuccess(w, l, nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	case errors.Is(err, ErrNotPending):
		httpx.JSONError(w, http.StatusConflict, "NOT_PENDING", "Request was already decided", nil)
	case errors.Is(err, inventory.ErrOutOfStock):
		// The request stays pending; the librarian can retry after a return.
		httpx.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", "No copies available; the request remains pending", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Deny handles POST /requests/{id}/deny (librarian)
func (h *HTTPHandler) Deny(w http.ResponseWriter, r *http.Request) {
	var req denyRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	err := h.service.Deny(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r), req.Notes)
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
	case errors.Is(err, ErrNotPending):
		httpx.JSONError(w, http.StatusConflict, "NOT_PENDING", "Request was already decided", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// ListPending handles GET /requests (librarian), newest first.
func (h *HTTPHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListPending(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, requests, nil)
}

// ListMine handles GET /requests/mine (member)
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolveMember(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	requests, err := h.service.ListByMember(r.Context(), m.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, requests, nil)
}

func (h *HTTPHandler) resolveMember(r *http.Request) (member.Member, error) {
	userID := httpx.UserIDFrom(r)
	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		return member.Member{}, err
	}
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	return h.members.Resolve(r.Context(), userID, name, u.Email)
}
