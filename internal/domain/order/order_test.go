package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusReadyToShip, StatusShipped, StatusCanceled} {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, Status("delivered").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusReadyToShip, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusShipped, false},
		{StatusReadyToShip, StatusShipped, true},
		{StatusReadyToShip, StatusCanceled, true},
		{StatusReadyToShip, StatusPending, false},
		{StatusShipped, StatusCanceled, false},
		{StatusShipped, StatusPending, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusShipped, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestOrderTotal(t *testing.T) {
	o := &Order{Items: []Item{
		{UnitPrice: decimal.RequireFromString("12.50"), Quantity: 2},
		{UnitPrice: decimal.RequireFromString("3.00"), Quantity: 3},
	}}
	assert.True(t, decimal.RequireFromString("34.00").Equal(o.Total()))

	empty := &Order{}
	assert.True(t, decimal.Zero.Equal(empty.Total()))
}
