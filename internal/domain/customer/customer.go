// Package customer holds the customer profile entity.
package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is a registered buyer. Orders reference customers by ID.
type Customer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
	BirthDate *time.Time
}

// Repository defines persistence operations for customers.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
}
