package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/customer"
)

// EventPublisher emits integration events after successful state changes.
type EventPublisher interface {
	OrderCreated(ctx context.Context, o *Order) error
}

// Service encapsulates the order assembly workflow and order lifecycle rules.
type Service struct {
	orders    Repository
	carts     cart.Repository
	customers customer.Repository
	events    EventPublisher
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	orders Repository,
	carts cart.Repository,
	customers customer.Repository,
	events EventPublisher,
) *Service {
	return &Service{
		orders:    orders,
		carts:     carts,
		customers: customers,
		events:    events,
	}
}

// CreateOrder converts a cart into a new pending order owned by the customer.
//
// Validation happens up front: the customer and cart must exist and the cart
// must hold at least one item. The conversion itself runs in a single database
// transaction (see Repository.ConvertCart) so a failure at any step leaves
// both the cart and the orders table untouched. The same validation errors can
// surface again from the repository when a concurrent conversion wins the
// race for the cart row.
func (s *Service) CreateOrder(ctx context.Context, cartID uuid.UUID, customerID int64) (*Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	c, err := s.carts.GetWithItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, cart.ErrEmpty
	}

	o, err := s.orders.ConvertCart(ctx, cartID, customerID)
	if err != nil {
		return nil, err
	}

	// Post-commit, best effort: a broker outage must not fail the order.
	if err := s.events.OrderCreated(ctx, o); err != nil {
		zctx.From(ctx).Warn("Publish order.created failed",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}

	return o, nil
}

// GetOrder returns a single order with its items.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders returns all orders, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// ListCustomerOrders returns the orders owned by one customer, newest first.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID int64) ([]Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// UpdateStatus moves an order to a new status, enforcing the transition rules.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next Status) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: o.Status, To: next}
	}
	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, errors.Wrap(err, "update order status")
	}
	o.Status = next
	return o, nil
}

// DeleteOrder removes an order that is still pending.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusPending {
		return ErrNotDeletable
	}
	return s.orders.Delete(ctx, id)
}
