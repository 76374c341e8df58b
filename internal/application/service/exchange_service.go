// Package service internal/application/service/exchange_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/domain/service"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
)

// ErrTableNotLoaded is returned when a table is needed before one was fetched
var ErrTableNotLoaded = errors.New("exchange table not loaded")

// ExchangeService runs the fetch, decode and parse pipeline and keeps the
// resulting table for the rest of the session
type ExchangeService struct {
	fetcher  service.Fetcher
	decoder  service.Decoder
	parser   service.Parser
	url      string
	encoding string
	logger   logger.Logger

	mu    sync.RWMutex
	table *entity.RateTable
}

// NewExchangeService creates a new exchange service
func NewExchangeService(fetcher service.Fetcher, decoder service.Decoder, parser service.Parser, url, encoding string, log logger.Logger) *ExchangeService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeService{
		fetcher:  fetcher,
		decoder:  decoder,
		parser:   parser,
		url:      url,
		encoding: encoding,
		logger:   log,
	}
}

// FetchCurrentTable downloads, decodes and parses the current table.
// On success it replaces the session table; on failure the previous one is kept.
func (s *ExchangeService) FetchCurrentTable(ctx context.Context) (*entity.RateTable, error) {
	startTime := time.Now()

	s.logger.Info("Fetching current exchange table", map[string]interface{}{
		"url":      s.url,
		"encoding": s.encoding,
	})

	data, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, s.fail("fetch", err)
	}

	text, err := s.decoder.Decode(data, s.encoding)
	if err != nil {
		return nil, s.fail("decode", err)
	}

	table, err := s.parser.Parse(text)
	if err != nil {
		return nil, s.fail("parse", err)
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	s.logger.Info("Exchange table loaded", map[string]interface{}{
		"table_id":     table.ID,
		"published_at": table.PublishedAt.Format("2006-01-02"),
		"rates":        table.Len(),
		"duration_ms":  time.Since(startTime).Milliseconds(),
	})

	return table, nil
}

func (s *ExchangeService) fail(stage string, err error) error {
	s.logger.Error("Failed to load exchange table", map[string]interface{}{
		"stage": stage,
		"url":   s.url,
		"error": err.Error(),
	})
	return fmt.Errorf("failed to %s exchange table: %w", stage, err)
}

// Table returns the session table, or nil if none was loaded yet
func (s *ExchangeService) Table() *entity.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table
}

// Lookup finds a single rate for user input, normalizing the code first
func (s *ExchangeService) Lookup(code string) (entity.Rate, error) {
	table := s.Table()
	if table == nil {
		return entity.Rate{}, ErrTableNotLoaded
	}

	code = NormalizeCode(code)
	rate, ok := table.Lookup(code)
	if !ok {
		return entity.Rate{}, &entity.CurrencyNotFoundError{Code: code}
	}

	return rate, nil
}
