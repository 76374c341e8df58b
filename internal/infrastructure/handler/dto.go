package handler

import (
	"math"
	"strconv"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RateResponse represents a single mid rate against PLN
type RateResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Rate string `json:"rate"`
}

// TableResponse represents the response for the rates endpoint
type TableResponse struct {
	ID          string         `json:"id"`
	Base        string         `json:"base"`
	PublishedAt string         `json:"published_at"`
	Rates       []RateResponse `json:"rates"`
}

// ConversionResponse represents a recorded conversion
type ConversionResponse struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Result    string `json:"result"`
	TableID   string `json:"table_id"`
	CreatedAt string `json:"created_at"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newRateResponse(rate entity.Rate) RateResponse {
	return RateResponse{
		Code: rate.Code,
		Name: rate.Name,
		Rate: fixed(rate.Rate, 4),
	}
}

func newTableResponse(table *entity.RateTable) TableResponse {
	sorted := table.Sorted()
	rates := make([]RateResponse, 0, len(sorted))
	for _, rate := range sorted {
		rates = append(rates, newRateResponse(rate))
	}

	return TableResponse{
		ID:          table.ID,
		Base:        entity.BaseCurrency,
		PublishedAt: table.PublishedAt.Format("2006-01-02"),
		Rates:       rates,
	}
}

func newConversionResponse(c *entity.Conversion) ConversionResponse {
	return ConversionResponse{
		ID:        c.ID,
		From:      c.From,
		To:        c.To,
		Amount:    plain(c.Amount),
		Result:    fixed(c.Result, 2),
		TableID:   c.TableID,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// plain echoes the amount as entered, without rounding
func plain(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// fixed rounds half away from zero for display; decimal cannot hold non-finite values
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
