package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKey(t *testing.T) {
	pepper := []byte("test-pepper")

	h1 := HashKey("secret-key", pepper)
	h2 := HashKey("secret-key", pepper)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex-encoded SHA-256

	assert.NotEqual(t, h1, HashKey("other-key", pepper))
	assert.NotEqual(t, h1, HashKey("secret-key", []byte("other-pepper")))
}

func TestCanManageCatalog(t *testing.T) {
	require.ErrorIs(t, CanManageCatalog(nil), ErrUnauthorized)

	customer := &Identity{CustomerID: 1}
	require.ErrorIs(t, CanManageCatalog(customer), ErrForbidden)

	admin := &Identity{Scopes: []string{ScopeAdmin}}
	require.NoError(t, CanManageCatalog(admin))
}

func TestCanManageOrders(t *testing.T) {
	require.ErrorIs(t, CanManageOrders(nil), ErrUnauthorized)
	require.ErrorIs(t, CanManageOrders(&Identity{}), ErrForbidden)
	require.NoError(t, CanManageOrders(&Identity{Scopes: []string{ScopeAdmin}}))
}

func TestCanViewCustomerResource(t *testing.T) {
	require.ErrorIs(t, CanViewCustomerResource(nil, 1), ErrUnauthorized)

	owner := &Identity{CustomerID: 1}
	require.NoError(t, CanViewCustomerResource(owner, 1))
	require.ErrorIs(t, CanViewCustomerResource(owner, 2), ErrForbidden)

	admin := &Identity{CustomerID: 3, Scopes: []string{ScopeAdmin}}
	require.NoError(t, CanViewCustomerResource(admin, 2))
}
