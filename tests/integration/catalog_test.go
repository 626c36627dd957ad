//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 8 {
		t.Fatalf("got %d products, want 8", len(products))
	}
	for _, p := range products {
		if p.Name == "" || p.Slug == "" || p.UnitPrice == "" {
			t.Errorf("product %d has empty fields: %+v", p.ID, p)
		}
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != 1 {
		t.Errorf("ID: got %d, want 1", p.ID)
	}
	if p.PriceAfterTax == "" || p.PriceAfterTax == p.UnitPrice {
		t.Errorf("price_after_tax %q should differ from unit_price %q", p.PriceAfterTax, p.UnitPrice)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	for _, path := range []string{"/api/products/9999", "/api/products/abc"} {
		resp := doGet(t, path)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	body := productRequest{Name: "Test Kettle", UnitPrice: "25.00", Inventory: 3, CategoryID: 1}

	resp := do(t, http.MethodPost, "/api/products", "", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, "/api/products", customerKey, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("customer: expected 403, got %d", resp.StatusCode)
	}
}

func TestProductLifecycle(t *testing.T) {
	body := productRequest{
		Name:        "Limited Kettle",
		Description: "Stovetop kettle",
		UnitPrice:   "42.00",
		Inventory:   3,
		CategoryID:  1,
	}
	resp := do(t, http.MethodPost, "/api/products", adminKey, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[productResponse](t, resp)
	if created.Slug != "limited-kettle" {
		t.Errorf("slug: got %q, want limited-kettle", created.Slug)
	}

	path := "/api/products/" + itoa(created.ID)

	body.UnitPrice = "45.00"
	resp = do(t, http.MethodPut, path, adminKey, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	updated := decodeJSON[productResponse](t, resp)
	if updated.UnitPrice != "45" && updated.UnitPrice != "45.00" {
		t.Errorf("unit price after update: got %q", updated.UnitPrice)
	}

	// Never ordered, so deletion is allowed.
	resp = do(t, http.MethodDelete, path, adminKey, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}

	resp = doGet(t, path)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	body := productRequest{Name: "Mug", UnitPrice: "5.00", Inventory: 1, CategoryID: 1}

	resp := do(t, http.MethodPost, "/api/products", adminKey, body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	payload := decodeJSON[errorResponse](t, resp)
	if payload.Code != http.StatusUnprocessableEntity {
		t.Errorf("error code: got %d", payload.Code)
	}
}

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/categories")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	categories := decodeJSON[[]categoryResponse](t, resp)
	if len(categories) < 3 {
		t.Fatalf("got %d categories, want at least 3", len(categories))
	}
}

// A category that still has products cannot be deleted.
func TestDeleteCategory_HasProducts(t *testing.T) {
	resp := do(t, http.MethodDelete, "/api/categories/1", adminKey, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestDeleteCategory_Empty(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/categories", adminKey,
		map[string]string{"title": "Temporary", "description": "to be removed"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[categoryResponse](t, resp)

	resp = do(t, http.MethodDelete, "/api/categories/"+itoa(created.ID), adminKey, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete empty category: expected 204, got %d", resp.StatusCode)
	}
}

func TestProductComments(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/products/1/comments", "",
		map[string]string{"name": "Sam", "body": "Great beans."})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create comment: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doGet(t, "/api/products/1/comments")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
