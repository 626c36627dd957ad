package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/customer"
	"github.com/xenking/storefront/internal/domain/order"
)

// errorPayload is the JSON body for every non-2xx response.
type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorPayload{Code: status, Message: message})
}

// respondDomainError maps a domain error to its HTTP status. Unrecognized
// errors become opaque 500s; the original error is logged, not echoed.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch status := domainErrorStatus(err); status {
	case http.StatusInternalServerError:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		respondError(w, status, "internal server error")
	default:
		respondError(w, status, err.Error())
	}
}

func domainErrorStatus(err error) int {
	var (
		validationErr *catalog.ValidationError
		quantityErr   *cart.InvalidQuantityError
		transitionErr *order.InvalidTransitionError
	)

	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, cart.ErrEmpty):
		return http.StatusBadRequest

	case errors.As(err, &validationErr),
		errors.As(err, &quantityErr):
		return http.StatusUnprocessableEntity

	case errors.Is(err, catalog.ErrProductInUse),
		errors.Is(err, catalog.ErrCategoryInUse),
		errors.Is(err, order.ErrNotDeletable),
		errors.As(err, &transitionErr):
		return http.StatusConflict

	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
