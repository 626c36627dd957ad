// Package cart holds the pre-order shopping cart: a transient container of
// (product, quantity) lines identified by a generated UUID. Carts are
// destroyed when converted to an order.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for cart operations.
var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")

	// ErrEmpty is returned when converting a cart with zero items.
	ErrEmpty = errors.New("cart is empty")
)

// InvalidQuantityError indicates a non-positive quantity on an add or update.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be greater than 0"
}

// Cart is a transient pre-order container.
type Cart struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Items     []Item
}

// TotalPrice sums quantity x current unit price over all items.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

// Item is one (product, quantity) line inside a cart. Unique per
// (cart, product): adding the same product again increments the quantity.
// ProductName and UnitPrice reflect the catalog at read time; they are not
// frozen until the cart becomes an order.
type Item struct {
	ID          int64
	CartID      uuid.UUID
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// TotalPrice is quantity x current unit price for this line.
func (i *Item) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Repository defines persistence operations for carts and cart items.
type Repository interface {
	Create(ctx context.Context, c *Cart) error

	// GetWithItems loads a cart and its items joined with current product
	// name and price. Returns ErrNotFound when no cart exists for id.
	GetWithItems(ctx context.Context, id uuid.UUID) (*Cart, error)

	// Delete removes the cart; its items go with it via cascade.
	// Returns ErrNotFound when no cart exists for id.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddItem inserts a cart item, or increments the quantity of the
	// existing (cart, product) row by item.Quantity. On return the item
	// carries its row ID and the post-merge quantity.
	AddItem(ctx context.Context, item *Item) error

	// UpdateItemQuantity sets the quantity of an existing item. This is the
	// explicit update path; AddItem never decreases quantities.
	UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) error

	// RemoveItem deletes a single line from the cart.
	RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error
}
