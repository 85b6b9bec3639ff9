package seed

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fixture describes one demonstration product to insert on first start.
type Fixture struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// Defaults returns the compiled-in demonstration catalogue, used when no
// fixture file is configured or loadable.
func Defaults() []Fixture {
	return []Fixture{
		{Name: "Wireless Mouse", Description: "Ergonomic 2.4 GHz wireless mouse", Price: 24.99, Stock: 50},
		{Name: "Mechanical Keyboard", Description: "Tenkeyless keyboard with brown switches", Price: 89.00, Stock: 30},
		{Name: "USB-C Hub", Description: "7-in-1 hub with HDMI and card reader", Price: 39.50, Stock: 40},
		{Name: "Laptop Stand", Description: "Adjustable aluminium laptop stand", Price: 32.00, Stock: 25},
		{Name: "Webcam", Description: "1080p webcam with built-in microphone", Price: 54.95, Stock: 20},
		{Name: "Desk Mat", Description: "Extended felt desk mat, 80x30 cm", Price: 18.00, Stock: 60},
	}
}

// Seeder inserts demonstration products into an empty catalogue.
type Seeder struct {
	productRepo repository.ProductRepository
	loader      Loader
	logger      zerolog.Logger
}

// NewSeeder creates a new catalogue seeder. loader may be nil, in which case
// only the compiled-in defaults are used.
func NewSeeder(productRepo repository.ProductRepository, loader Loader, logger zerolog.Logger) *Seeder {
	return &Seeder{
		productRepo: productRepo,
		loader:      loader,
		logger:      logger.With().Str("component", "seeder").Logger(),
	}
}

// Run seeds the catalogue if and only if it is empty, so it is safe to call
// on every process start. source names the fixture file for the loader; when
// empty or unloadable, the compiled-in defaults are used instead.
func (s *Seeder) Run(ctx context.Context, source string) error {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Debug().Int("count", count).Msg("catalogue not empty, skipping seed")
		return nil
	}

	fixtures := s.loadFixtures(ctx, source)

	for _, f := range fixtures {
		product := &model.Product{
			ID:          uuid.New(),
			Name:        f.Name,
			Description: f.Description,
			Price:       f.Price,
			Stock:       f.Stock,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", f.Name, err)
		}
	}

	s.logger.Info().Int("count", len(fixtures)).Msg("catalogue seeded")
	return nil
}

func (s *Seeder) loadFixtures(ctx context.Context, source string) []Fixture {
	if s.loader == nil {
		return Defaults()
	}

	fixtures, err := s.loader.Load(ctx, source)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", source).Msg("failed to load fixture file, using defaults")
		return Defaults()
	}
	if len(fixtures) == 0 {
		s.logger.Warn().Str("source", source).Msg("fixture file is empty, using defaults")
		return Defaults()
	}
	return fixtures
}
