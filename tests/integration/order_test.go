//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func placeOrder(t *testing.T, cartID string) orderResponse {
	t.Helper()

	resp := do(t, http.MethodPost, "/api/orders", customerKey, createOrderRequest{CartID: cartID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[orderResponse](t, resp)
}

func TestCreateOrder_NoAuth(t *testing.T) {
	c := newCartWith(t, 1, 1)

	resp := do(t, http.MethodPost, "/api/orders", "", createOrderRequest{CartID: c.ID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_InvalidKey(t *testing.T) {
	c := newCartWith(t, 1, 1)

	resp := do(t, http.MethodPost, "/api/orders", "wrong-key", createOrderRequest{CartID: c.ID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

// Conversion carries every cart line into the order and destroys the cart.
func TestCreateOrder_ConvertsCart(t *testing.T) {
	c := newCartWith(t, 1, 2)
	resp := do(t, http.MethodPost, "/api/carts/"+c.ID+"/items", "",
		addCartItemRequest{ProductID: 2, Quantity: 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add second item: got %d", resp.StatusCode)
	}

	resp = doGet(t, "/api/carts/"+c.ID)
	c = decodeJSON[cartResponse](t, resp)

	order := placeOrder(t, c.ID)

	if order.Status != "pending" {
		t.Errorf("status: got %q, want pending", order.Status)
	}
	if len(order.Items) != len(c.Items) {
		t.Fatalf("order has %d items, cart had %d", len(order.Items), len(c.Items))
	}

	// Quantities and snapshot prices line up with the cart at conversion time.
	cartLines := make(map[int64]cartItemResponse, len(c.Items))
	for _, it := range c.Items {
		cartLines[it.Product.ID] = it
	}
	for _, it := range order.Items {
		if it.ID == 0 {
			t.Errorf("order item for product %d has no id in the create response", it.Product.ID)
		}
		line, ok := cartLines[it.Product.ID]
		if !ok {
			t.Errorf("order item for product %d has no cart line", it.Product.ID)
			continue
		}
		if it.Quantity != line.Quantity {
			t.Errorf("product %d quantity: got %d, want %d", it.Product.ID, it.Quantity, line.Quantity)
		}
		if it.UnitPrice != line.Product.UnitPrice {
			t.Errorf("product %d unit price: got %s, want %s", it.Product.ID, it.UnitPrice, line.Product.UnitPrice)
		}
	}
	if order.Total != c.TotalPrice {
		t.Errorf("order total: got %s, want cart total %s", order.Total, c.TotalPrice)
	}

	// The create response reports the same item ids a later read does.
	resp = do(t, http.MethodGet, "/api/orders/"+itoa(order.ID), customerKey, nil)
	fetched := decodeJSON[orderResponse](t, resp)
	ids := make(map[int64]int64, len(fetched.Items))
	for _, it := range fetched.Items {
		ids[it.Product.ID] = it.ID
	}
	for _, it := range order.Items {
		if ids[it.Product.ID] != it.ID {
			t.Errorf("product %d item id: create response %d, fetched %d", it.Product.ID, it.ID, ids[it.Product.ID])
		}
	}

	// The cart is gone after conversion.
	resp = doGet(t, "/api/carts/"+c.ID)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cart after conversion: expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/carts", "", nil)
	c := decodeJSON[cartResponse](t, resp)

	resp = do(t, http.MethodPost, "/api/orders", customerKey, createOrderRequest{CartID: c.ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// The failed conversion must not consume the cart.
	resp = doGet(t, "/api/carts/"+c.ID)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("cart after failed conversion: expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_UnknownCart(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/orders", customerKey,
		createOrderRequest{CartID: "00000000-0000-0000-0000-000000000002"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// A catalog price change after conversion never rewrites an existing order.
func TestOrder_PriceSnapshotImmutable(t *testing.T) {
	c := newCartWith(t, 3, 1)
	order := placeOrder(t, c.ID)
	originalTotal := order.Total

	resp := doGet(t, "/api/products/3")
	p := decodeJSON[productResponse](t, resp)

	update := productRequest{
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   "99.99",
		Inventory:   p.Inventory,
		CategoryID:  p.CategoryID,
	}
	resp = do(t, http.MethodPut, "/api/products/3", adminKey, update)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update product: got %d", resp.StatusCode)
	}
	t.Cleanup(func() {
		update.UnitPrice = p.UnitPrice
		resp := do(t, http.MethodPut, "/api/products/3", adminKey, update)
		resp.Body.Close()
	})

	resp = do(t, http.MethodGet, "/api/orders/"+itoa(order.ID), customerKey, nil)
	got := decodeJSON[orderResponse](t, resp)

	if got.Total != originalTotal {
		t.Errorf("order total after price change: got %s, want %s", got.Total, originalTotal)
	}
	if got.Items[0].UnitPrice != order.Items[0].UnitPrice {
		t.Errorf("snapshot price changed: got %s, want %s", got.Items[0].UnitPrice, order.Items[0].UnitPrice)
	}
}

// A product referenced by order items cannot be deleted.
func TestDeleteProduct_ReferencedByOrder(t *testing.T) {
	c := newCartWith(t, 4, 1)
	placeOrder(t, c.ID)

	resp := do(t, http.MethodDelete, "/api/products/4", adminKey, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestOrderStatusLifecycle(t *testing.T) {
	c := newCartWith(t, 1, 1)
	order := placeOrder(t, c.ID)
	path := "/api/orders/" + itoa(order.ID)

	// Customers cannot change status.
	resp := do(t, http.MethodPatch, path, customerKey, updateOrderStatusRequest{Status: "ready_to_ship"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer status update: expected 403, got %d", resp.StatusCode)
	}

	// pending cannot jump straight to shipped.
	resp = do(t, http.MethodPatch, path, adminKey, updateOrderStatusRequest{Status: "shipped"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("pending->shipped: expected 409, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPatch, path, adminKey, updateOrderStatusRequest{Status: "ready_to_ship"})
	got := decodeJSON[orderResponse](t, resp)
	if got.Status != "ready_to_ship" {
		t.Fatalf("status: got %q, want ready_to_ship", got.Status)
	}

	resp = do(t, http.MethodPatch, path, adminKey, updateOrderStatusRequest{Status: "shipped"})
	got = decodeJSON[orderResponse](t, resp)
	if got.Status != "shipped" {
		t.Fatalf("status: got %q, want shipped", got.Status)
	}

	// Shipped orders cannot be canceled or deleted.
	resp = do(t, http.MethodPatch, path, adminKey, updateOrderStatusRequest{Status: "canceled"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("shipped->canceled: expected 409, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, path, adminKey, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("delete shipped order: expected 409, got %d", resp.StatusCode)
	}
}

func TestDeleteOrder_Pending(t *testing.T) {
	c := newCartWith(t, 1, 1)
	order := placeOrder(t, c.ID)
	path := "/api/orders/" + itoa(order.ID)

	resp := do(t, http.MethodDelete, path, adminKey, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, path, adminKey, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestListOrders_ScopedToCustomer(t *testing.T) {
	c := newCartWith(t, 1, 1)
	order := placeOrder(t, c.ID)

	resp := do(t, http.MethodGet, "/api/orders", customerKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	orders := decodeJSON[[]orderResponse](t, resp)

	found := false
	for _, o := range orders {
		if o.CustomerID != order.CustomerID {
			t.Errorf("customer listing contains foreign order %d (customer %d)", o.ID, o.CustomerID)
		}
		if o.ID == order.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("order %d missing from customer listing", order.ID)
	}
}
