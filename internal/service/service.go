package service

import (
	"context"

	"shopfront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves products, optionally filtered by a case-insensitive
	// substring match on name or description. An empty query returns the
	// whole catalogue.
	List(ctx context.Context, query string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create validates and persists a new product.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// Update applies a partial update, re-validating the merged result.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService defines operations for checkout and order retrieval.
type OrderService interface {
	// Checkout validates the requested items against the catalogue, persists
	// an order with snapshotted line items, and decrements stock.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)

	// List retrieves all orders.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}
