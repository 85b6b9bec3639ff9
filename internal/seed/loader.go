package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Loader reads a product fixture file from some backing store.
type Loader interface {
	// Load reads and decodes the fixture file named by source.
	Load(ctx context.Context, source string) ([]Fixture, error)
}

// fileLoader implements Loader for local JSON fixture files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based fixture loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "fixture-loader").Logger(),
	}
}

// Load reads a JSON fixture file containing an array of products.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]Fixture, error) {
	l.logger.Info().Str("file", filePath).Msg("loading fixture file")

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read fixture file")
		return nil, fmt.Errorf("failed to read fixture file %s: %w", filePath, err)
	}

	fixtures, err := decodeFixtures(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode fixture file")
		return nil, fmt.Errorf("failed to decode fixture file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("fixtures_loaded", len(fixtures)).
		Msg("fixture file loaded successfully")

	return fixtures, nil
}

// decodeFixtures parses a JSON array of fixtures and validates each entry.
func decodeFixtures(data []byte) ([]Fixture, error) {
	var fixtures []Fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}

	for i, f := range fixtures {
		if f.Name == "" || f.Description == "" {
			return nil, fmt.Errorf("fixture %d: name and description are required", i)
		}
		if f.Price < 0 {
			return nil, fmt.Errorf("fixture %d: price must not be negative", i)
		}
		if f.Stock < 0 {
			return nil, fmt.Errorf("fixture %d: stock must not be negative", i)
		}
	}

	return fixtures, nil
}
