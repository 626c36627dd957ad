package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/catalog"
)

const (
	listCategoriesSQL = `SELECT c.id, c.title, c.description, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id ORDER BY c.id`

	getCategorySQL = `SELECT c.id, c.title, c.description, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.id = $1 GROUP BY c.id`

	createCategorySQL = `INSERT INTO categories (title, description)
		VALUES ($1, $2) RETURNING id`

	updateCategorySQL = `UPDATE categories SET title = $2, description = $3 WHERE id = $1`

	countCategoryProductsSQL = `SELECT COUNT(*) FROM products WHERE category_id = $1`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ catalog.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implements catalog.CategoryRepository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories with their product counts.
func (r *CategoryRepository) List(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetByID returns a single category with its product count.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*catalog.Category, error) {
	rows, err := r.pool.Query(ctx, getCategorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	return &c, nil
}

// Create persists a new category and fills in its generated ID.
func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	err := r.pool.QueryRow(ctx, createCategorySQL, c.Title, c.Description).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

// Update rewrites the category's mutable fields.
func (r *CategoryRepository) Update(ctx context.Context, c *catalog.Category) error {
	tag, err := r.pool.Exec(ctx, updateCategorySQL, c.ID, c.Title, c.Description)
	if err != nil {
		return fmt.Errorf("updating category %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category unless products reference it. A product created
// between count and delete trips the foreign key instead and is reported as
// the same conflict.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var products int
	if err := tx.QueryRow(ctx, countCategoryProductsSQL, id).Scan(&products); err != nil {
		return fmt.Errorf("counting category %d products: %w", id, err)
	}
	if products > 0 {
		return catalog.ErrCategoryInUse
	}

	tag, err := tx.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		if violatesForeignKey(err) {
			return catalog.ErrCategoryInUse
		}
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.ProductCount)
	return c, err
}
