// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockFetcher mocks the Fetcher interface
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDecoder mocks the Decoder interface
type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(data []byte, encoding string) (string, error) {
	args := m.Called(data, encoding)
	return args.String(0), args.Error(1)
}

// MockParser mocks the Parser interface
type MockParser struct {
	mock.Mock
}

func (m *MockParser) Parse(text string) (*entity.RateTable, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateTable), args.Error(1)
}

// MockConversionRepository mocks the ConversionRepository interface
type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) Store(ctx context.Context, conversion *entity.Conversion) (string, error) {
	args := m.Called(ctx, conversion)
	return args.String(0), args.Error(1)
}

func (m *MockConversionRepository) FindByID(ctx context.Context, id string) (*entity.Conversion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Conversion), args.Error(1)
}

func (m *MockConversionRepository) List(ctx context.Context) ([]*entity.Conversion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Conversion), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
