package entity

import "fmt"

// FetchError is returned when the exchange table could not be downloaded
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError is returned when raw bytes are not valid in the declared encoding
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s text: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError is returned when a document cannot be turned into a RateTable.
// Parsing is all-or-nothing, so a ParseError means no table was produced.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse exchange table: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to parse exchange table: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidAmountError is returned when a conversion is requested for a non-positive amount
type InvalidAmountError struct {
	Amount float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount must be a positive value, got %v", e.Amount)
}

// CurrencyNotFoundError is returned when a currency is neither in the table nor the base currency
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("currency %s not found", e.Code)
}
