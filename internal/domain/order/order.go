// Package order holds finalized purchase records. Order items carry a frozen
// copy of the product's unit price taken when the order was placed; later
// catalog price changes never alter an existing order's value.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrNotDeletable is returned when deleting an order that already left the
// pending state.
var ErrNotDeletable = errors.New("only pending orders can be deleted")

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending     Status = "pending"
	StatusReadyToShip Status = "ready_to_ship"
	StatusShipped     Status = "shipped"
	StatusCanceled    Status = "canceled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReadyToShip, StatusShipped, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change is allowed. Orders move
// forward only: pending -> ready_to_ship -> shipped, with cancellation
// possible until the order has shipped.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusReadyToShip || next == StatusCanceled
	case StatusReadyToShip:
		return next == StatusShipped || next == StatusCanceled
	}
	return false
}

// InvalidTransitionError indicates a disallowed status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return "cannot transition order from " + string(e.From) + " to " + string(e.To)
}

// Order is a finalized purchase owned by a customer.
type Order struct {
	ID         int64
	CustomerID int64
	Status     Status
	CreatedAt  time.Time
	Items      []Item
}

// Total sums quantity x frozen unit price over all items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

// Item is one priced line inside an order. UnitPrice is the snapshot taken
// when the order was created and is immutable thereafter.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// TotalPrice is quantity x frozen unit price for this line.
func (i *Item) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Repository defines persistence operations for orders.
type Repository interface {
	// ConvertCart atomically turns the cart into a new pending order:
	// inside one transaction it locks the cart row, snapshots each item's
	// current product price into an order item, bulk-inserts the items, and
	// deletes the cart. Any failure rolls the whole unit back.
	//
	// Returns cart.ErrNotFound when the cart is missing (including when a
	// concurrent conversion removed it first) and cart.ErrEmpty when it has
	// no items.
	ConvertCart(ctx context.Context, cartID uuid.UUID, customerID int64) (*Order, error)

	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}
