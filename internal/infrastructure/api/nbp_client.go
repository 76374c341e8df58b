package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
)

const (
	// DefaultTableURL serves the most recent NBP table A
	DefaultTableURL = "https://static.nbp.pl/dane/kursy/xml/lastA.xml"

	defaultTimeout = 10 * time.Second
)

// NBPClient downloads exchange table documents over HTTP
type NBPClient struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewNBPClient creates a new NBP client.
// A nil httpClient gets a client with a 10 second timeout.
func NewNBPClient(httpClient *http.Client, log logger.Logger) *NBPClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBPClient{
		httpClient: httpClient,
		logger:     log,
	}
}

// Fetch downloads the document at url in a single attempt and returns its raw bytes
func (c *NBPClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &entity.FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Add("Accept", "application/xml")

	c.logger.Debug("Fetching exchange table", map[string]interface{}{
		"url": url,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Exchange table request failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return nil, &entity.FetchError{URL: url, Err: err}
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"url":   url,
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Exchange table request returned error status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return nil, &entity.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &entity.FetchError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Info("Exchange table fetched", map[string]interface{}{
		"url":         url,
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return body, nil
}
