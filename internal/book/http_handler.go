package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type upsertRequest struct {
	Title           string  `json:"title" validate:"required,max=180"`
	AuthorID        string  `json:"author_id" validate:"required,uuid"`
	CategoryID      string  `json:"category_id" validate:"required,uuid"`
	PublishedYear   *int    `json:"published_year" validate:"omitempty,gte=1000,lte=2100"`
	ISBN            *string `json:"isbn" validate:"omitempty,max=32"`
	CopiesAvailable int     `json:"copies_available" validate:"gte=0"`
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Q:             query.Get("q"),
		CategoryID:    query.Get("category_id"),
		AuthorID:      query.Get("author_id"),
		AvailableOnly: query.Get("available") == "true",
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// GetByID handles GET /books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, b, nil)
}

// Create handles POST /books (librarian)
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	b := Book{
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		CategoryID:      req.CategoryID,
		PublishedYear:   req.PublishedYear,
		ISBN:            req.ISBN,
		CopiesAvailable: req.CopiesAvailable,
	}
	if err := h.service.Create(r.Context(), &b); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, b)
}

// Update handles PUT /books/{id} (librarian)
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	b := Book{
		ID:            r.PathValue("id"),
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		CategoryID:    req.CategoryID,
		PublishedYear: req.PublishedYear,
		ISBN:          req.ISBN,
	}
	if err := h.service.Update(r.Context(), &b); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, b, nil)
}

// Delete handles DELETE /books/{id} (librarian)
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		httpx.JSONSuccessNoContent(w)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrInUse):
		httpx.JSONError(w, http.StatusConflict, "BOOK_IN_USE", "Book has loans or requests and cannot be deleted", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
