package service

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout validates the whole cart before touching any stock, then persists
// the order and applies the stock decrements in a single transaction. A
// decrement that fails against concurrently changed stock rolls the order
// back, so no order is ever recorded that inventory did not cover.
func (s *orderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if err := validateCheckoutRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid checkout request")
		return nil, err
	}

	// First pass: validate every line in caller order and snapshot name and
	// price. Stops at the first failure; no stock is touched here.
	var total float64
	items := make([]model.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", line.ProductID.String()).Msg("failed to look up product")
			return nil, fmt.Errorf("failed to look up product: %w", err)
		}
		if product == nil {
			s.logger.Warn().Str("product_id", line.ProductID.String()).Msg("checkout references unknown product")
			return nil, &model.CartProductNotFoundError{ProductID: line.ProductID}
		}
		if product.Stock < line.Quantity {
			s.logger.Warn().
				Str("product_id", line.ProductID.String()).
				Int("requested", line.Quantity).
				Int("available", product.Stock).
				Msg("insufficient stock")
			return nil, &model.InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}

		total += product.Price * float64(line.Quantity)
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Position:  i,
		})
	}

	order := &model.Order{
		ID:        uuid.New(),
		Total:     total,
		Status:    model.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	for i := range items {
		items[i].OrderID = order.ID
	}

	// Second pass: persist and decrement atomically.
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, line := range req.Items {
		if err = s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", line.ProductID.String()).
				Msg("stock decrement failed, rolling back order")
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Float64("total", total).
		Msg("order created successfully")

	return order, nil
}

// List retrieves all orders.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// validateCheckoutRequest validates the checkout request shape.
func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	for i, line := range req.Items {
		if line.ProductID == uuid.Nil {
			return &model.ValidationError{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: "is required",
			}
		}
		if line.Quantity < 1 {
			return &model.ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be at least 1",
			}
		}
	}

	return nil
}
