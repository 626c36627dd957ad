package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/cart"
)

const (
	createCartSQL = `INSERT INTO carts (id) VALUES ($1) RETURNING created_at`

	getCartSQL = `SELECT id, created_at FROM carts WHERE id = $1`

	getCartItemsSQL = `SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.unit_price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1`

	deleteCartSQL = `DELETE FROM carts WHERE id = $1`

	// Merge semantics: one row per (cart, product), repeated adds increment.
	addCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity`

	updateCartItemSQL = `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`

	removeCartItemSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Create persists a new empty cart.
func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	err := r.pool.QueryRow(ctx, createCartSQL, c.ID).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating cart %q: %w", c.ID, err)
	}
	return nil
}

// GetWithItems loads a cart and its items joined with current product data.
func (r *CartRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	err := r.pool.QueryRow(ctx, getCartSQL, id).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, getCartItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting cart %q items: %w", id, err)
	}
	c.Items, err = pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("getting cart %q items: %w", id, err)
	}
	return &c, nil
}

// Delete removes the cart; cart_items cascade.
func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteCartSQL, id)
	if err != nil {
		return fmt.Errorf("deleting cart %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// AddItem inserts or merges a cart line and fills in the row ID and the
// post-merge quantity.
func (r *CartRepository) AddItem(ctx context.Context, item *cart.Item) error {
	err := r.pool.QueryRow(ctx, addCartItemSQL,
		item.CartID, item.ProductID, item.Quantity,
	).Scan(&item.ID, &item.Quantity)
	if err != nil {
		return fmt.Errorf("adding item to cart %q: %w", item.CartID, err)
	}
	return nil
}

// UpdateItemQuantity sets an item's quantity.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) error {
	tag, err := r.pool.Exec(ctx, updateCartItemSQL, cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("updating item %d in cart %q: %w", itemID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes one line from the cart.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	tag, err := r.pool.Exec(ctx, removeCartItemSQL, cartID, itemID)
	if err != nil {
		return fmt.Errorf("removing item %d from cart %q: %w", itemID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var it cart.Item
	err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity)
	return it, err
}
