package events

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/order"
)

func TestNewOrderCreated(t *testing.T) {
	o := &order.Order{
		ID:         7,
		CustomerID: 42,
		Status:     order.StatusPending,
		Items: []order.Item{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("3.00")},
		},
	}

	ev := NewOrderCreated(o)

	assert.Equal(t, "OrderCreated", ev.EventType)
	assert.Equal(t, int64(7), ev.OrderID)
	assert.Equal(t, int64(42), ev.CustomerID)
	assert.Equal(t, "pending", ev.Status)
	assert.Equal(t, "28.00", ev.Total)
	assert.WithinDuration(t, time.Now().UTC(), ev.OccurredAt, time.Minute)

	require.Len(t, ev.Items, 2)
	assert.Equal(t, OrderCreatedItem{ProductID: 1, Quantity: 2, UnitPrice: "12.50"}, ev.Items[0])
	assert.Equal(t, OrderCreatedItem{ProductID: 2, Quantity: 1, UnitPrice: "3.00"}, ev.Items[1])
}
