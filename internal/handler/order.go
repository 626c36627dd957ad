package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/order"
)

type orderResponse struct {
	ID         int64               `json:"id"`
	CustomerID int64               `json:"customer_id"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []orderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
}

type orderItemResponse struct {
	ID         int64           `json:"id"`
	Product    lineItemProduct `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type createOrderRequest struct {
	CartID uuid.UUID `json:"cart_id"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		Items:      make([]orderItemResponse, len(o.Items)),
		Total:      o.Total(),
	}
	for i := range o.Items {
		it := &o.Items[i]
		resp.Items[i] = orderItemResponse{
			ID: it.ID,
			Product: lineItemProduct{
				ID:        it.ProductID,
				Name:      it.ProductName,
				UnitPrice: it.UnitPrice,
			},
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice(),
		}
	}
	return resp
}

// CreateOrder converts the caller's cart into a new pending order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		respondDomainError(w, r, auth.ErrUnauthorized)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CartID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "cart_id required")
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), req.CartID, id.CustomerID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderResponse(o))
}

// ListOrders returns the caller's orders; admins get everyone's.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		respondDomainError(w, r, auth.ErrUnauthorized)
		return
	}

	var (
		orders []order.Order
		err    error
	)
	if id.IsAdmin() {
		orders, err = h.orders.ListOrders(r.Context())
	} else {
		orders, err = h.orders.ListCustomerOrders(r.Context(), id.CustomerID)
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetOrder returns one order to its owner or an admin.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := auth.CanViewCustomerResource(auth.FromContext(r.Context()), o.CustomerID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

// UpdateOrderStatus moves an order through its lifecycle. Admin only.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageOrders(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	next := order.Status(req.Status)
	if !next.Valid() {
		respondError(w, http.StatusUnprocessableEntity, "unknown status "+req.Status)
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), orderID, next)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

// DeleteOrder removes a pending order. Admin only.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := auth.CanManageOrders(auth.FromContext(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), orderID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
