package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
)

type cartResponse struct {
	ID         uuid.UUID          `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []cartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type cartItemResponse struct {
	ID         int64           `json:"id"`
	Product    lineItemProduct `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// lineItemProduct is the embedded product view on cart and order lines.
type lineItemProduct struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	resp := cartResponse{
		ID:         c.ID,
		CreatedAt:  c.CreatedAt,
		Items:      make([]cartItemResponse, len(c.Items)),
		TotalPrice: c.TotalPrice(),
	}
	for i := range c.Items {
		it := &c.Items[i]
		resp.Items[i] = cartItemResponse{
			ID: it.ID,
			Product: lineItemProduct{
				ID:        it.ProductID,
				Name:      it.ProductName,
				UnitPrice: it.UnitPrice,
			},
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice(),
		}
	}
	return resp
}

// CreateCart creates a new empty cart and returns its generated ID.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.CreateCart(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartResponse(c))
}

// GetCart returns a cart with its items priced at current catalog prices.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := cartPathID(w, r)
	if !ok {
		return
	}

	c, err := h.carts.GetCart(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

// DeleteCart abandons a cart.
func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	id, ok := cartPathID(w, r)
	if !ok {
		return
	}

	if err := h.carts.DeleteCart(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCartItem adds a product to the cart, merging with an existing line for
// the same product.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := cartPathID(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.carts.AddItem(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartItemResponse{
		ID: item.ID,
		Product: lineItemProduct{
			ID:        item.ProductID,
			Name:      item.ProductName,
			UnitPrice: item.UnitPrice,
		},
		Quantity:   item.Quantity,
		TotalPrice: item.TotalPrice(),
	})
}

// UpdateCartItem sets a line's quantity to an explicit value.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartPathID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.UpdateItemQuantity(r.Context(), cartID, itemID, req.Quantity); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCartItem deletes one line from the cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartPathID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), cartID, itemID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cartPathID parses the cart UUID from the URL, responding 404 on malformed
// values the same way an unknown cart would.
func cartPathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "cartID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "cart not found")
		return uuid.Nil, false
	}
	return id, true
}
