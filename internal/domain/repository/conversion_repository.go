// Package repository internal/domain/repository/conversion_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
)

// ConversionRepository defines the interface for the session's conversion history
type ConversionRepository interface {
	// Store saves a conversion and returns its ID
	Store(ctx context.Context, conversion *entity.Conversion) (string, error)

	// FindByID retrieves a conversion by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Conversion, error)

	// List returns all stored conversions, oldest first
	List(ctx context.Context) ([]*entity.Conversion, error)
}
