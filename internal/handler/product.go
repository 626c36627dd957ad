package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/catalog"
)

// taxRate is applied to unit prices for the informational price_after_tax
// field. Prices are stored and snapshotted pre-tax.
var taxRate = decimal.RequireFromString("1.09")

// productResponse mirrors the catalog product. Decimal fields marshal as
// strings to preserve exact cents.
type productResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PriceAfterTax decimal.Decimal `json:"price_after_tax"`
	Inventory     int             `json:"inventory"`
	CategoryID    int64           `json:"category_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Inventory   int             `json:"inventory"`
	CategoryID  int64           `json:"category_id"`
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		PriceAfterTax: p.UnitPrice.Mul(taxRate).Round(2),
		Inventory:     p.Inventory,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
	}
}

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(&products[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// CreateProduct adds a product to the catalog. Admin only.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageCatalog(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &catalog.Product{
		Name:        req.Name,
		Slug:        catalog.Slugify(req.Name),
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Inventory:   req.Inventory,
		CategoryID:  req.CategoryID,
	}
	if err := p.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := h.products.Create(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductResponse(p))
}

// UpdateProduct rewrites a product. Admin only.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageCatalog(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &catalog.Product{
		ID:          id,
		Name:        req.Name,
		Slug:        catalog.Slugify(req.Name),
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Inventory:   req.Inventory,
		CategoryID:  req.CategoryID,
	}
	if err := p.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := h.products.Update(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// DeleteProduct removes a product unless order items depend on it, in which
// case the repository reports a conflict. Admin only.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageCatalog(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a numeric chi URL parameter, responding 404 on garbage so
// /products/abc behaves like a missing resource rather than a server error.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
