package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	repo Repository
}

func NewHTTPHandler(repo Repository) *HTTPHandler {
	return &HTTPHandler{repo: repo}
}

type createRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

func (h *HTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.repo.ListAuthors(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, authors, nil)
}

func (h *HTTPHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	a := Author{Name: req.Name}
	if err := h.repo.CreateAuthor(r.Context(), &a); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, a)
}

func (h *HTTPHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.repo.DeleteAuthor)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, categories, nil)
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	c := Category{Name: req.Name}
	if err := h.repo.CreateCategory(r.Context(), &c); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, c)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.repo.DeleteCategory)
}

func (h *HTTPHandler) delete(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) error) {
	err := fn(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	case errors.Is(err, ErrInUse):
		httpx.JSONError(w, http.StatusConflict, "IN_USE", "Still referenced by books", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
