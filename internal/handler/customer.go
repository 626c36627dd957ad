package handler

import (
	"net/http"
	"time"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/customer"
)

type customerResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

type updateCustomerRequest struct {
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
}

func toCustomerResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		BirthDate: c.BirthDate,
	}
}

// ListCustomers returns all customers. Admin only.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		respondDomainError(w, r, auth.ErrUnauthorized)
		return
	}
	if !id.IsAdmin() {
		respondDomainError(w, r, auth.ErrForbidden)
		return
	}

	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i := range customers {
		resp[i] = toCustomerResponse(&customers[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetCustomer returns one customer to an admin or the customer themselves.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}

	if err := auth.CanViewCustomerResource(auth.FromContext(r.Context()), customerID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	c, err := h.customers.GetByID(r.Context(), customerID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(c))
}

// GetOwnCustomer returns the caller's own profile.
func (h *Handler) GetOwnCustomer(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		respondDomainError(w, r, auth.ErrUnauthorized)
		return
	}

	c, err := h.customers.GetByID(r.Context(), id.CustomerID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(c))
}

// UpdateOwnCustomer updates the caller's own profile.
func (h *Handler) UpdateOwnCustomer(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		respondDomainError(w, r, auth.ErrUnauthorized)
		return
	}

	var req updateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := &customer.Customer{
		ID:        id.CustomerID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	}
	if err := h.customers.Update(r.Context(), c); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(c))
}
