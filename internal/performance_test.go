package internal

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/nbp-currency-converter/internal/application/service"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/decoder"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const perfTableXML = `<?xml version="1.0" encoding="ISO-8859-2"?>
<tabela_kursow typ="A">
  <numer_tabeli>201/A/NBP/2024</numer_tabeli>
  <data_publikacji>2024-10-15</data_publikacji>
  <pozycja><nazwa_waluty>euro</nazwa_waluty><przelicznik>1</przelicznik><kod_waluty>EUR</kod_waluty><kurs_sredni>4,3215</kurs_sredni></pozycja>
  <pozycja><nazwa_waluty>dolar amerykanski</nazwa_waluty><przelicznik>1</przelicznik><kod_waluty>USD</kod_waluty><kurs_sredni>3,9605</kurs_sredni></pozycja>
  <pozycja><nazwa_waluty>funt szterling</nazwa_waluty><przelicznik>1</przelicznik><kod_waluty>GBP</kod_waluty><kurs_sredni>5,1612</kurs_sredni></pozycja>
  <pozycja><nazwa_waluty>jen (Japonia)</nazwa_waluty><przelicznik>100</przelicznik><kod_waluty>JPY</kod_waluty><kurs_sredni>2,6543</kurs_sredni></pozycja>
</tabela_kursow>`

// staticFetcher serves the same document on every call
type staticFetcher struct {
	data  []byte
	calls int64
}

func (f *staticFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.data, nil
}

func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	store, err := db.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
	fetcher := &staticFetcher{data: []byte(perfTableXML)}
	exchange := service.NewExchangeService(fetcher, decoder.NewCharsetDecoder(), parser.NewXMLTableParser(),
		"http://nbp.test/lastA.xml", decoder.DefaultEncoding, log)
	conversions := service.NewConversionService(exchange, db.NewBadgerConversionRepository(store), log)

	_, err = exchange.FetchCurrentTable(context.Background())
	require.NoError(t, err)

	numConversions := 1000
	concurrency := 10
	perWorker := numConversions / concurrency
	currencies := []string{"PLN", "EUR", "USD", "GBP", "JPY"}

	t.Run("Concurrent conversions during reloads", func(t *testing.T) {
		var failures int64
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency + 1)

		// table swaps must not disturb readers
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := exchange.FetchCurrentTable(context.Background()); err != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
		}()

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				ctx := context.Background()
				for j := 0; j < perWorker; j++ {
					from := currencies[(workerID+j)%len(currencies)]
					to := currencies[(workerID+j+1)%len(currencies)]

					if _, err := conversions.Convert(ctx, from, to, 100+float64(j)); err != nil {
						t.Logf("Error converting %s to %s: %v", from, to, err)
						atomic.AddInt64(&failures, 1)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		throughput := float64(numConversions) / duration.Seconds()
		t.Logf("Currency conversion: %d conversions in %v (%.2f conv/sec)",
			numConversions, duration, throughput)

		assert.Zero(t, atomic.LoadInt64(&failures))
		assert.Equal(t, int64(21), atomic.LoadInt64(&fetcher.calls))
	})

	t.Run("History listing", func(t *testing.T) {
		startTime := time.Now()

		history, err := conversions.History(context.Background())

		require.NoError(t, err)
		assert.Len(t, history, numConversions)
		for i := 1; i < len(history); i++ {
			assert.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
		}
		t.Logf("History listing: %d records in %v", len(history), time.Since(startTime))
	})
}
