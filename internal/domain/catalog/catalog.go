// Package catalog holds the store catalog entities: categories, products, and
// product comments. Prices are decimal; order pricing snapshots them at order
// time, so catalog price updates never rewrite history.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog lookups and the deletion guards.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")

	// ErrProductInUse is returned when deleting a product that is referenced
	// by at least one order item. Historical orders keep their product
	// reference, so the delete is refused instead of cascaded.
	ErrProductInUse = errors.New("product is referenced by order items")

	// ErrCategoryInUse is returned when deleting a category that still has
	// products assigned to it.
	ErrCategoryInUse = errors.New("category has products")
)

// Category groups products.
type Category struct {
	ID          int64
	Title       string
	Description string

	// ProductCount is populated by list/get queries.
	ProductCount int
}

// Product is a catalog item available for purchase.
type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	UnitPrice   decimal.Decimal
	Inventory   int
	CategoryID  int64
	CreatedAt   time.Time
}

// Comment is a customer comment on a product. New comments start in the
// waiting state until moderated.
type Comment struct {
	ID        int64
	ProductID int64
	Name      string
	Body      string
	Status    CommentStatus
	CreatedAt time.Time
}

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentWaiting     CommentStatus = "waiting"
	CommentApproved    CommentStatus = "approved"
	CommentNotApproved CommentStatus = "not_approved"
)

// CategoryRepository defines persistence operations for categories.
//
// Delete must refuse to remove a category that still has products, returning
// ErrCategoryInUse without mutating anything.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository defines persistence operations for products.
//
// Delete must refuse to remove a product referenced by order items, returning
// ErrProductInUse without mutating anything.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines persistence operations for product comments.
type CommentRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]Comment, error)
	Create(ctx context.Context, c *Comment) error
}
