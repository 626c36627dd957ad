package handler

import (
	"net/http"
	"time"

	"github.com/xenking/storefront/internal/domain/catalog"
)

type commentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type commentRequest struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// ListComments returns a product's comments, newest first.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	// 404 for comments of a product that does not exist.
	if _, err := h.products.GetByID(r.Context(), productID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	comments, err := h.comments.ListByProduct(r.Context(), productID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]commentResponse, len(comments))
	for i, c := range comments {
		resp[i] = commentResponse{
			ID:        c.ID,
			Name:      c.Name,
			Body:      c.Body,
			Status:    string(c.Status),
			CreatedAt: c.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// CreateComment adds a comment to a product. Comments start unmoderated.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	if _, err := h.products.GetByID(r.Context(), productID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := &catalog.Comment{
		ProductID: productID,
		Name:      req.Name,
		Body:      req.Body,
		Status:    catalog.CommentWaiting,
	}
	if err := c.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := h.comments.Create(r.Context(), c); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, commentResponse{
		ID:        c.ID,
		Name:      c.Name,
		Body:      c.Body,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	})
}
