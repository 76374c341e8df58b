package entity

import (
	"fmt"
	"sort"
	"time"
)

// BaseCurrency is the currency every rate in a table is quoted against.
// It is never stored as a Rate entry.
const BaseCurrency = "PLN"

// Rate represents one currency's mid rate: how many units of BaseCurrency
// equal one unit of Code
type Rate struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

func (r Rate) String() string {
	return fmt.Sprintf("[%s] %s: %.4f", r.Code, r.Name, r.Rate)
}

// RateTable is a snapshot of one published exchange table.
// It is built once by a parser and must not be mutated afterwards.
type RateTable struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
	Rates       []Rate    `json:"rates"`
}

// Lookup finds the rate for an exact, case-sensitive currency code.
// If the table holds duplicates the first one in document order wins.
func (t *RateTable) Lookup(code string) (Rate, bool) {
	if t == nil {
		return Rate{}, false
	}

	for _, r := range t.Rates {
		if r.Code == code {
			return r, true
		}
	}

	return Rate{}, false
}

// Len returns the number of rates in the table
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rates)
}

// Sorted returns a copy of the rates ordered by currency code
func (t *RateTable) Sorted() []Rate {
	if t == nil {
		return nil
	}

	rates := make([]Rate, len(t.Rates))
	copy(rates, t.Rates)
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Code < rates[j].Code
	})

	return rates
}
