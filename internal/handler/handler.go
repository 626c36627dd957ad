// Package handler exposes the storefront over HTTP. Routing is chi; handlers
// decode requests, run explicit authorization checks, delegate to domain
// services and repositories, and map domain errors to JSON error payloads.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/customer"
	"github.com/xenking/storefront/internal/domain/order"
)

// Handler holds the domain dependencies for all HTTP endpoints.
type Handler struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	comments   catalog.CommentRepository
	carts      *cart.Service
	orders     *order.Service
	customers  customer.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	comments catalog.CommentRepository,
	carts *cart.Service,
	orders *order.Service,
	customers customer.Repository,
) *Handler {
	return &Handler{
		products:   products,
		categories: categories,
		comments:   comments,
		carts:      carts,
		orders:     orders,
		customers:  customers,
	}
}

// Routes builds the API router. Authentication runs for every request (public
// reads simply proceed without an identity); authorization is checked
// per-operation inside the handlers.
func (h *Handler) Routes(apikeys auth.Repository, pepper []byte) chi.Router {
	r := chi.NewRouter()
	r.Use(Authenticate(apikeys, pepper))

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", h.GetProduct)
				r.Put("/", h.UpdateProduct)
				r.Delete("/", h.DeleteProduct)
				r.Get("/comments", h.ListComments)
				r.Post("/comments", h.CreateComment)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Route("/{categoryID}", func(r chi.Router) {
				r.Get("/", h.GetCategory)
				r.Put("/", h.UpdateCategory)
				r.Delete("/", h.DeleteCategory)
			})
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.CreateCart)
			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.DeleteCart)
				r.Post("/items", h.AddCartItem)
				r.Patch("/items/{itemID}", h.UpdateCartItem)
				r.Delete("/items/{itemID}", h.RemoveCartItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", h.GetOrder)
				r.Patch("/", h.UpdateOrderStatus)
				r.Delete("/", h.DeleteOrder)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Get("/me", h.GetOwnCustomer)
			r.Put("/me", h.UpdateOwnCustomer)
			r.Get("/{customerID}", h.GetCustomer)
		})
	})

	return r
}
