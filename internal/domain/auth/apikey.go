// Package auth holds API-key identities and the per-operation authorization
// checks. Checks are plain functions over an Identity; handlers call them
// explicitly instead of composing permission middleware.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-faster/errors"
)

// ErrUnauthorized is returned when a request carries no valid API key.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when a valid identity lacks permission for an
// operation.
var ErrForbidden = errors.New("forbidden")

// Scopes recognized on API keys.
const (
	// ScopeAdmin allows catalog mutations, order status changes, and
	// cross-customer reads.
	ScopeAdmin = "admin"
)

// Identity is a validated API key: who the caller is and what they may do.
type Identity struct {
	ID         string
	KeyHash    string
	Name       string
	CustomerID int64
	Scopes     []string
}

// HasScope reports whether the identity carries the given scope.
func (i *Identity) HasScope(scope string) bool {
	for _, s := range i.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the admin scope.
func (i *Identity) IsAdmin() bool {
	return i.HasScope(ScopeAdmin)
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Identity, error)
}

// HashKey computes the hex HMAC-SHA256 of an API key under the given pepper.
// The same function is used when seeding keys and when authenticating.
func HashKey(key string, pepper []byte) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

// CanManageCatalog gates product, category, and comment-moderation mutations.
// Reads stay public.
func CanManageCatalog(id *Identity) error {
	if id == nil {
		return ErrUnauthorized
	}
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanManageOrders gates status updates and order deletion.
func CanManageOrders(id *Identity) error {
	if id == nil {
		return ErrUnauthorized
	}
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanViewCustomerResource gates reads of a customer-owned resource (orders,
// profile). Admins may read anyone's; customers only their own.
func CanViewCustomerResource(id *Identity, ownerID int64) error {
	if id == nil {
		return ErrUnauthorized
	}
	if id.IsAdmin() || id.CustomerID == ownerID {
		return nil
	}
	return ErrForbidden
}
