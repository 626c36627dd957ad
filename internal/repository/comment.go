package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/catalog"
)

const (
	listCommentsByProductSQL = `SELECT id, product_id, name, body, status, created_at
		FROM comments WHERE product_id = $1 ORDER BY created_at DESC`

	createCommentSQL = `INSERT INTO comments (product_id, name, body, status)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
)

var _ catalog.CommentRepository = (*CommentRepository)(nil)

// CommentRepository implements catalog.CommentRepository backed by PostgreSQL.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a CommentRepository that uses the given pool.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// ListByProduct returns a product's comments, newest first.
func (r *CommentRepository) ListByProduct(ctx context.Context, productID int64) ([]catalog.Comment, error) {
	rows, err := r.pool.Query(ctx, listCommentsByProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for product %d: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanComment)
}

// Create persists a new comment and fills in its generated ID and timestamp.
func (r *CommentRepository) Create(ctx context.Context, c *catalog.Comment) error {
	err := r.pool.QueryRow(ctx, createCommentSQL,
		c.ProductID, c.Name, c.Body, c.Status,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating comment for product %d: %w", c.ProductID, err)
	}
	return nil
}

func scanComment(row pgx.CollectableRow) (catalog.Comment, error) {
	var c catalog.Comment
	err := row.Scan(&c.ID, &c.ProductID, &c.Name, &c.Body, &c.Status, &c.CreatedAt)
	return c, err
}
