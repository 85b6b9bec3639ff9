package repository

import (
	"context"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetAll retrieves every product in the catalogue.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil) when
	// no product with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update persists the full product row. Returns false when no product
	// with that ID exists.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. Returns false when no product with that ID
	// exists.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Search retrieves products whose name or description contains the term,
	// case-insensitively. An empty term matches everything. The scan is
	// O(catalogue size) per query; there is no text index.
	Search(ctx context.Context, term string) ([]model.Product, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)

	// DecrementStock reduces a product's stock by amount within the provided
	// transaction. The update is conditional on stock >= amount, so two
	// concurrent decrements can never drive stock negative. Returns
	// InsufficientStockError when the condition fails and
	// CartProductNotFoundError when the product row is gone.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line items within the provided
	// transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetAll retrieves every order along with its items.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order by its ID along with its items. Returns
	// (nil, nil) when no order with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}
