package entity

import (
	"errors"
	"time"
)

// Conversion records one conversion performed during a session
type Conversion struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    float64   `json:"amount"`
	Result    float64   `json:"result"`
	TableID   string    `json:"table_id"`
	CreatedAt time.Time `json:"created_at"`
	// Seq is assigned by the store in insertion order
	Seq uint64 `json:"seq"`
}

// Validate ensures the conversion record is complete
func (c *Conversion) Validate() error {
	if c.From == "" || c.To == "" {
		return errors.New("currency codes must not be empty")
	}

	if c.Amount <= 0 {
		return errors.New("amount must be a positive value")
	}

	return nil
}
