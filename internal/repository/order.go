package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
)

const (
	// FOR UPDATE serializes concurrent conversions of the same cart: the
	// loser of the race blocks until commit, then sees no row and gets
	// cart.ErrNotFound instead of copying items out of a deleted cart.
	lockCartSQL = `SELECT id FROM carts WHERE id = $1 FOR UPDATE`

	cartSnapshotSQL = `SELECT ci.product_id, p.name, ci.quantity, p.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1`

	insertOrderSQL = `INSERT INTO orders (customer_id, status)
		VALUES ($1, $2) RETURNING id, created_at`

	// COPY does not return generated keys, so the conversion re-reads them.
	// (order_id, product_id) is unique because cart_items is unique per
	// (cart_id, product_id).
	insertedItemIDsSQL = `SELECT id, product_id FROM order_items WHERE order_id = $1`

	getOrderSQL = `SELECT id, customer_id, status, created_at FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, customer_id, status, created_at
		FROM orders ORDER BY id DESC`

	listOrdersByCustomerSQL = `SELECT id, customer_id, status, created_at
		FROM orders WHERE customer_id = $1 ORDER BY id DESC`

	getOrderItemsSQL = `SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// ConvertCart turns a cart into a pending order in one transaction:
// lock cart row, snapshot current prices into order items, bulk-insert via
// COPY, delete the cart. Rollback on any error leaves cart and orders as they
// were.
func (r *OrderRepository) ConvertCart(ctx context.Context, cartID uuid.UUID, customerID int64) (*order.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("converting cart %q: %w", cartID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, lockCartSQL, cartID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("locking cart %q: %w", cartID, err)
	}

	rows, err := tx.Query(ctx, cartSnapshotSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("reading cart %q items: %w", cartID, err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var it order.Item
		err := row.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading cart %q items: %w", cartID, err)
	}
	if len(items) == 0 {
		return nil, cart.ErrEmpty
	}

	o := &order.Order{
		CustomerID: customerID,
		Status:     order.StatusPending,
	}
	if err := tx.QueryRow(ctx, insertOrderSQL, customerID, o.Status).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "product_id", "quantity", "unit_price"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			return []any{o.ID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice}, nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting order %d items: %w", o.ID, err)
	}

	idRows, err := tx.Query(ctx, insertedItemIDsSQL, o.ID)
	if err != nil {
		return nil, fmt.Errorf("reading order %d item ids: %w", o.ID, err)
	}
	var itemID, productID int64
	idByProduct := make(map[int64]int64, len(items))
	if _, err := pgx.ForEachRow(idRows, []any{&itemID, &productID}, func() error {
		idByProduct[productID] = itemID
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading order %d item ids: %w", o.ID, err)
	}

	if _, err := tx.Exec(ctx, deleteCartSQL, cartID); err != nil {
		return nil, fmt.Errorf("deleting cart %q: %w", cartID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("converting cart %q: %w", cartID, err)
	}

	for i := range items {
		items[i].ID = idByProduct[items[i].ProductID]
		items[i].OrderID = o.ID
	}
	o.Items = items
	return o, nil
}

// GetByID returns a single order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	err := r.pool.QueryRow(ctx, getOrderSQL, id).Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("getting order %d items: %w", id, err)
	}
	o.Items = items[id]
	return &o, nil
}

// List returns all orders with items, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return r.collectWithItems(ctx, rows)
}

// ListByCustomer returns one customer's orders with items, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}
	return r.collectWithItems(ctx, rows)
}

// UpdateStatus writes a new status. Transition rules live in the domain
// service; this is a plain persistence write.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes an order; its items cascade.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) collectWithItems(ctx context.Context, rows pgx.Rows) ([]order.Order, error) {
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Order, error) {
		var o order.Order
		err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("collecting orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading order items: %w", err)
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// loadItems fetches items for a batch of orders in one query, keyed by order.
func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]order.Item, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderIDs)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var it order.Item
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice)
		return it, err
	})
	if err != nil {
		return nil, err
	}

	byOrder := make(map[int64][]order.Item, len(orderIDs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}
