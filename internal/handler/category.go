package handler

import (
	"net/http"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/catalog"
)

type categoryResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ProductCount int    `json:"products_count"`
}

type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func toCategoryResponse(c *catalog.Category) categoryResponse {
	return categoryResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		ProductCount: c.ProductCount,
	}
}

// ListCategories returns all categories with product counts.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i := range categories {
		resp[i] = toCategoryResponse(&categories[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetCategory returns one category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}

	c, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponse(c))
}

// CreateCategory adds a category. Admin only.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageCatalog(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := &catalog.Category{Title: req.Title, Description: req.Description}
	if err := c.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := h.categories.Create(r.Context(), c); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryResponse(c))
}

// UpdateCategory rewrites a category. Admin only.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageCatalog(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := &catalog.Category{ID: id, Title: req.Title, Description: req.Description}
	if err := c.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := h.categories.Update(r.Context(), c); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponse(c))
}

// DeleteCategory removes a category unless products depend on it, in which
// case the repository reports a conflict. Admin only.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageCatalog(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
