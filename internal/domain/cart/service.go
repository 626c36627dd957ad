package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/storefront/internal/domain/catalog"
)

// Service encapsulates cart business rules on top of the repository: quantity
// validation, product existence checks, and the add-item merge contract.
type Service struct {
	carts    Repository
	products catalog.ProductRepository
}

// NewService creates a cart Service with the required dependencies.
func NewService(carts Repository, products catalog.ProductRepository) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// CreateCart creates a new empty cart with a generated identifier.
func (s *Service) CreateCart(ctx context.Context) (*Cart, error) {
	c := &Cart{ID: uuid.New()}
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return c, nil
}

// GetCart returns the cart with its items and current catalog prices.
func (s *Service) GetCart(ctx context.Context, id uuid.UUID) (*Cart, error) {
	return s.carts.GetWithItems(ctx, id)
}

// DeleteCart removes the cart and all its items.
func (s *Service) DeleteCart(ctx context.Context, id uuid.UUID) error {
	return s.carts.Delete(ctx, id)
}

// AddItem adds quantity of a product to the cart. If the cart already holds
// the product, the existing line's quantity is incremented instead of creating
// a second row. Quantities are never normalized to zero here; lowering or
// removing a line goes through UpdateItemQuantity or RemoveItem.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: quantity}
	}

	// Fail fast with precise errors before touching cart_items.
	if _, err := s.carts.GetWithItems(ctx, cartID); err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := &Item{
		CartID:      cartID,
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.UnitPrice,
		Quantity:    quantity,
	}
	if err := s.carts.AddItem(ctx, item); err != nil {
		return nil, errors.Wrap(err, "add cart item")
	}
	return item, nil
}

// UpdateItemQuantity sets an item's quantity to an explicit positive value.
func (s *Service) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return &InvalidQuantityError{Quantity: quantity}
	}
	return s.carts.UpdateItemQuantity(ctx, cartID, itemID, quantity)
}

// RemoveItem deletes one line from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	return s.carts.RemoveItem(ctx, cartID, itemID)
}
