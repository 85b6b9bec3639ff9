package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products, optionally filtered by substring.
func (s *productService) List(ctx context.Context, query string) ([]model.Product, error) {
	var (
		products []model.Product
		err      error
	)
	if query == "" {
		products, err = s.productRepo.GetAll(ctx)
	} else {
		products, err = s.productRepo.Search(ctx, query)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("query", query).
		Msg("retrieved products")

	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and persists a new product.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, &model.ValidationError{Field: "body", Message: "request body is required"}
	}

	if err := validateProductFields(req.Name, req.Description, req.Price, req.Stock); err != nil {
		s.logger.Warn().Err(err).Msg("invalid product")
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update applies only the provided fields and re-validates the merged result.
// An empty partial leaves every field unchanged.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, &model.ValidationError{Field: "body", Message: "request body is required"}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product for update")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := validateProductFields(product.Name, product.Description, product.Price, product.Stock); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("invalid product update")
		return nil, err
	}

	found, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")

	return product, nil
}

// Delete removes a product. Deleting a missing product fails with NotFound,
// so a second delete of the same ID also fails with NotFound.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// validateProductFields enforces the catalogue invariants shared by create
// and update.
func validateProductFields(name, description string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return &model.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(description) == "" {
		return &model.ValidationError{Field: "description", Message: "must not be empty"}
	}
	if price < 0 {
		return &model.ValidationError{Field: "price", Message: "must not be negative"}
	}
	if stock < 0 {
		return &model.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return nil
}
