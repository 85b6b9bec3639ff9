package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a customer order. Orders are immutable once created.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total" db:"total"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in an order. Name and price are copied
// from the product at checkout time, so later catalogue edits do not affect
// existing orders.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Position  int       `json:"-" db:"position"`
}

// CheckoutRequest represents the request payload for creating an order.
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
}

// CheckoutItem represents a single requested line in a checkout.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}
