// Package db internal/infrastructure/db/badger_conversion_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const conversionPrefix = "conv:"

// ErrConversionNotFound is returned when no conversion has the requested ID
var ErrConversionNotFound = errors.New("conversion not found")

// OpenInMemory opens a BadgerDB instance that lives only as long as the process
func OpenInMemory() (*badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return db, nil
}

// BadgerConversionRepository implements the conversion repository interface using BadgerDB
type BadgerConversionRepository struct {
	db  *badger.DB
	seq atomic.Uint64
}

// NewBadgerConversionRepository creates a new BadgerDB conversion repository
func NewBadgerConversionRepository(db *badger.DB) *BadgerConversionRepository {
	return &BadgerConversionRepository{db: db}
}

// Store saves a conversion and returns its ID
func (r *BadgerConversionRepository) Store(ctx context.Context, conversion *entity.Conversion) (string, error) {
	conversion.Seq = r.seq.Add(1)

	data, err := json.Marshal(conversion)
	if err != nil {
		return "", fmt.Errorf("failed to marshal conversion: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(conversionPrefix+conversion.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store conversion: %w", err)
	}

	return conversion.ID, nil
}

// FindByID retrieves a conversion by its unique identifier
func (r *BadgerConversionRepository) FindByID(ctx context.Context, id string) (*entity.Conversion, error) {
	var conversion entity.Conversion

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(conversionPrefix + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conversion)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrConversionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve conversion: %w", err)
	}

	return &conversion, nil
}

// List returns every stored conversion, oldest first
func (r *BadgerConversionRepository) List(ctx context.Context) ([]*entity.Conversion, error) {
	conversions := make([]*entity.Conversion, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(conversionPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var conversion entity.Conversion
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &conversion)
			})
			if err != nil {
				return err
			}
			conversions = append(conversions, &conversion)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}

	// keys are random UUIDs, so order by creation time then insertion
	sort.Slice(conversions, func(i, j int) bool {
		a, b := conversions[i], conversions[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Seq < b.Seq
	})

	return conversions, nil
}
