package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"shopfront/internal/handler"
	"shopfront/internal/model"
	"shopfront/internal/repository"
	"shopfront/internal/router"
	"shopfront/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := NopLogger()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	return router.New(productHandler, orderHandler, logger)
}

func doJSON(t *testing.T, server http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products returns all products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProduct(t, testDB.Pool, "Wireless Mouse", "A mouse", 24.99, 5)
		SeedProduct(t, testDB.Pool, "Keyboard", "A keyboard", 89.00, 3)

		w := doJSON(t, server, http.MethodGet, "/api/products", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 2)
	})

	t.Run("GET /api/products?q= filters by substring", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProduct(t, testDB.Pool, "Wireless Mouse", "Pointing device", 24.99, 5)
		SeedProduct(t, testDB.Pool, "Desk Mat", "Felt surface", 18.00, 10)

		w := doJSON(t, server, http.MethodGet, "/api/products?q=MOUSE", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		require.Len(t, products, 1)
		assert.Equal(t, "Wireless Mouse", products[0].Name)
	})

	t.Run("POST /api/products creates a product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPost, "/api/products",
			`{"name":"Widget","description":"A widget","price":10.00,"stock":2}`)

		assert.Equal(t, http.StatusCreated, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "Widget", product.Name)

		// And it is now retrievable
		w = doJSON(t, server, http.MethodGet, "/api/products/"+product.ID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /api/products rejects invalid payloads", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/products", `{"description":"No name","price":10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, server, http.MethodPost, "/api/products",
			`{"name":"Cheap","description":"Too cheap","price":-1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PATCH /api/products/{id} updates provided fields only", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		product := SeedProduct(t, testDB.Pool, "Widget", "A widget", 10.00, 2)

		w := doJSON(t, server, http.MethodPatch, "/api/products/"+product.ID.String(), `{"price":12.50}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var updated model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, 12.50, updated.Price)
		assert.Equal(t, "Widget", updated.Name)
		assert.Equal(t, 2, updated.Stock)
	})

	t.Run("DELETE /api/products/{id} removes the product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		product := SeedProduct(t, testDB.Pool, "Doomed", "Soon gone", 5.00, 1)

		w := doJSON(t, server, http.MethodDelete, "/api/products/"+product.ID.String(), "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/products/"+product.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		// Deleting again reports not found
		w = doJSON(t, server, http.MethodDelete, "/api/products/"+product.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/products/{id} returns 404 for unknown product", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/products/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/products/{id} returns 400 for malformed ID", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/products/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /health", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("Unknown API route yields JSON 404", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})
}

func TestOrderAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	checkoutBody := func(items ...model.CheckoutItem) string {
		body, err := json.Marshal(model.CheckoutRequest{Items: items})
		require.NoError(t, err)
		return string(body)
	}

	t.Run("Checkout decrements stock and records the order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		widget := SeedProduct(t, testDB.Pool, "Widget", "A widget", 10.00, 2)

		w := doJSON(t, server, http.MethodPost, "/api/orders",
			checkoutBody(model.CheckoutItem{ProductID: widget.ID, Quantity: 2}))

		assert.Equal(t, http.StatusCreated, w.Code)

		var order model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
		assert.InDelta(t, 20.00, order.Total, 0.0001)
		assert.Equal(t, model.OrderStatusPending, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Widget", order.Items[0].Name)
		assert.Equal(t, 10.00, order.Items[0].Price)
		assert.Equal(t, 2, order.Items[0].Quantity)

		// Stock is now exhausted
		w = doJSON(t, server, http.MethodGet, "/api/products/"+widget.ID.String(), "")
		var got model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 0, got.Stock)

		// A second checkout against the same product now fails
		w = doJSON(t, server, http.MethodPost, "/api/orders",
			checkoutBody(model.CheckoutItem{ProductID: widget.ID, Quantity: 1}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "0 available")
	})

	t.Run("Empty cart is rejected", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/orders", `{"items":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "EMPTY_CART")
	})

	t.Run("Unknown product leaves no order and no stock change", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		widget := SeedProduct(t, testDB.Pool, "Widget", "A widget", 10.00, 2)

		w := doJSON(t, server, http.MethodPost, "/api/orders",
			checkoutBody(
				model.CheckoutItem{ProductID: widget.ID, Quantity: 1},
				model.CheckoutItem{ProductID: uuid.New(), Quantity: 1},
			))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		// No order was recorded
		w = doJSON(t, server, http.MethodGet, "/api/orders", "")
		assert.JSONEq(t, "[]", w.Body.String())

		// Stock is untouched
		w = doJSON(t, server, http.MethodGet, "/api/products/"+widget.ID.String(), "")
		var got model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 2, got.Stock)
	})

	t.Run("GET /api/orders/{id} returns the full order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		widget := SeedProduct(t, testDB.Pool, "Widget", "A widget", 10.00, 5)

		w := doJSON(t, server, http.MethodPost, "/api/orders",
			checkoutBody(model.CheckoutItem{ProductID: widget.ID, Quantity: 1}))
		require.Equal(t, http.StatusCreated, w.Code)

		var created model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

		w = doJSON(t, server, http.MethodGet, "/api/orders/"+created.ID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)

		var got model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, created.ID, got.ID)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Widget", got.Items[0].Name)
	})

	t.Run("GET /api/orders/{id} returns 404 for unknown order", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Concurrent checkouts never oversell", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		contested := SeedProduct(t, testDB.Pool, "Contested", "Everyone wants one", 10.00, 5)

		body := checkoutBody(model.CheckoutItem{ProductID: contested.ID, Quantity: 3})

		var wg sync.WaitGroup
		codes := make([]int, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := doJSON(t, server, http.MethodPost, "/api/orders", body)
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
			default:
				t.Fatalf("unexpected status code %d", code)
			}
		}
		assert.Equal(t, 1, created, "exactly one of two competing checkouts should succeed")

		// Stock reflects the single successful order
		var stock int
		require.NoError(t, testDB.Pool.QueryRow(context.Background(),
			`SELECT stock FROM products WHERE id = $1`, contested.ID).Scan(&stock))
		assert.Equal(t, 2, stock)

		// Exactly one order was recorded
		w := doJSON(t, server, http.MethodGet, "/api/orders", "")
		var orders []model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
		assert.Len(t, orders, 1)
	})
}
