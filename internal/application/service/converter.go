package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
)

// Convert converts amount from one currency to another by pivoting through
// entity.BaseCurrency. Codes are matched case-insensitively. The table is only
// read, and the result is not rounded.
func Convert(table *entity.RateTable, from, to string, amount float64) (float64, error) {
	// written as !(x > 0) so NaN is rejected too
	if !(amount > 0) || math.IsInf(amount, 1) {
		return 0, &entity.InvalidAmountError{Amount: amount}
	}

	from = NormalizeCode(from)
	to = NormalizeCode(to)

	if from == to {
		return amount, nil
	}

	amountInBase := amount
	if from != entity.BaseCurrency {
		rate, ok := table.Lookup(from)
		if !ok {
			return 0, &entity.CurrencyNotFoundError{Code: from}
		}
		amountInBase = amount * rate.Rate
	}

	if to == entity.BaseCurrency {
		return amountInBase, nil
	}

	rate, ok := table.Lookup(to)
	if !ok {
		return 0, &entity.CurrencyNotFoundError{Code: to}
	}

	return amountInBase / rate.Rate, nil
}

// NormalizeCode prepares user input for a table lookup
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseAmount reads a user-supplied amount, accepting a decimal comma
func ParseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
