// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/domain/repository"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// TableProvider supplies the current session table
type TableProvider interface {
	Table() *entity.RateTable
}

// ConversionService converts amounts against the session table and keeps a
// history of the conversions made
type ConversionService struct {
	tables TableProvider
	repo   repository.ConversionRepository
	logger logger.Logger
	now    func() time.Time
}

// NewConversionService creates a new conversion service
func NewConversionService(tables TableProvider, repo repository.ConversionRepository, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		tables: tables,
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Convert converts amount between two currencies and records the conversion
func (s *ConversionService) Convert(ctx context.Context, from, to string, amount float64) (*entity.Conversion, error) {
	requestID := middleware.GetRequestID(ctx)
	from = NormalizeCode(from)
	to = NormalizeCode(to)

	s.logger.Info("Converting amount", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     amount,
	})

	table := s.tables.Table()
	if table == nil {
		s.logger.Warn("Conversion requested before a table was loaded", map[string]interface{}{
			"request_id": requestID,
		})
		return nil, ErrTableNotLoaded
	}

	result, err := Convert(table, from, to, amount)
	if err != nil {
		s.logger.Warn("Conversion rejected", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"amount":     amount,
			"error":      err.Error(),
		})
		return nil, err
	}

	conversion := &entity.Conversion{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Amount:    amount,
		Result:    result,
		TableID:   table.ID,
		CreatedAt: s.now().UTC(),
	}

	if err := conversion.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.Store(ctx, conversion); err != nil {
		s.logger.Error("Failed to record conversion", map[string]interface{}{
			"request_id": requestID,
			"id":         conversion.ID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to record conversion: %w", err)
	}

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"id":         conversion.ID,
		"from":       from,
		"to":         to,
		"amount":     amount,
		"result":     result,
		"table_id":   table.ID,
	})

	return conversion, nil
}

// GetConversion retrieves a recorded conversion by ID
func (s *ConversionService) GetConversion(ctx context.Context, id string) (*entity.Conversion, error) {
	return s.repo.FindByID(ctx, id)
}

// History returns the conversions recorded in this session, oldest first
func (s *ConversionService) History(ctx context.Context) ([]*entity.Conversion, error) {
	conversions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	return conversions, nil
}
