package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/catalog"
)

const (
	listProductsSQL = `SELECT id, name, slug, description, unit_price, inventory, category_id, created_at
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, slug, description, unit_price, inventory, category_id, created_at
		FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products (name, slug, description, unit_price, inventory, category_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`

	updateProductSQL = `UPDATE products
		SET name = $2, slug = $3, description = $4, unit_price = $5, inventory = $6, category_id = $7
		WHERE id = $1`

	countProductOrderItemsSQL = `SELECT COUNT(*) FROM order_items WHERE product_id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements catalog.ProductRepository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// Create persists a new product and fills in its generated ID and timestamp.
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	err := r.pool.QueryRow(ctx, createProductSQL,
		p.Name, p.Slug, p.Description, p.UnitPrice, p.Inventory, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

// Update rewrites the product's mutable fields.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Slug, p.Description, p.UnitPrice, p.Inventory, p.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// Delete removes a product unless order items reference it. Historical orders
// keep their product reference, so the delete is refused as a conflict rather
// than cascaded. The count catches the common case; a reference inserted
// between count and delete trips the foreign key instead and is reported as
// the same conflict.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var orderItems int
	if err := tx.QueryRow(ctx, countProductOrderItemsSQL, id).Scan(&orderItems); err != nil {
		return fmt.Errorf("counting product %d order items: %w", id, err)
	}
	if orderItems > 0 {
		return catalog.ErrProductInUse
	}

	tag, err := tx.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		if violatesForeignKey(err) {
			return catalog.ErrProductInUse
		}
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p     catalog.Product
		price decimal.Decimal
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description,
		&price, &p.Inventory, &p.CategoryID, &p.CreatedAt,
	)
	p.UnitPrice = price
	return p, err
}
