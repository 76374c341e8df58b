package service

import (
	"context"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
)

// Fetcher retrieves the raw bytes published at a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Decoder turns raw bytes in the named character encoding into text
type Decoder interface {
	Decode(data []byte, encoding string) (string, error)
}

// Parser builds a RateTable from a decoded exchange table document
type Parser interface {
	Parse(text string) (*entity.RateTable, error)
}
