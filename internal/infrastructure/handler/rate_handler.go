// internal/infrastructure/handler/rate_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/nbp-currency-converter/internal/application/service"
	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RateHandler serves the session exchange table
type RateHandler struct {
	service *service.ExchangeService
	logger  logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(service *service.ExchangeService, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		service: service,
		logger:  log,
	}
}

// ListRates handles listing every rate of the current table
func (h *RateHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	table := h.service.Table()
	if table == nil {
		h.logger.Warn("Rates requested before a table was loaded", map[string]interface{}{
			"request_id": requestID,
		})
		sendErrorResponse(w, h.logger, "Exchange table not loaded",
			"The exchange table has not been loaded yet. Please try again later.",
			http.StatusServiceUnavailable, requestID)
		return
	}

	h.logger.Info("Listing rates", map[string]interface{}{
		"request_id": requestID,
		"table_id":   table.ID,
		"rates":      table.Len(),
	})

	sendJSON(w, http.StatusOK, newTableResponse(table))
}

// GetRate handles looking up a single rate by currency code
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	code := mux.Vars(r)["code"]

	rate, err := h.service.Lookup(code)
	if err != nil {
		var notFound *entity.CurrencyNotFoundError
		switch {
		case errors.As(err, &notFound):
			h.logger.Warn("Currency not found", map[string]interface{}{
				"request_id": requestID,
				"code":       notFound.Code,
			})
			sendErrorResponse(w, h.logger, "Currency not found",
				err.Error(), http.StatusNotFound, requestID)
		case errors.Is(err, service.ErrTableNotLoaded):
			sendErrorResponse(w, h.logger, "Exchange table not loaded",
				"The exchange table has not been loaded yet. Please try again later.",
				http.StatusServiceUnavailable, requestID)
		default:
			h.logger.Error("Unexpected error in rate lookup", map[string]interface{}{
				"request_id": requestID,
				"code":       code,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred. Please try again later.",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	sendJSON(w, http.StatusOK, newRateResponse(rate))
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates", h.ListRates).Methods("GET")
	router.HandleFunc("/rates/{code}", h.GetRate).Methods("GET")

	h.logger.Info("Rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /rates",
			"GET /rates/{code}",
		},
	})
}

func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
