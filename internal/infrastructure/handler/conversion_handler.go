// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/damon-houk/nbp-currency-converter/internal/application/service"
	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service *service.ConversionService, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles converting an amount between two currencies
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	rawAmount := query.Get("amount")

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     rawAmount,
	})

	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		sendErrorResponse(w, h.logger, "Missing currency parameter",
			"The 'from' and 'to' query parameters are required", http.StatusBadRequest, requestID)
		return
	}

	amount, err := service.ParseAmount(rawAmount)
	if err != nil {
		h.logger.Warn("Invalid amount parameter", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"The 'amount' query parameter must be a number", http.StatusBadRequest, requestID)
		return
	}

	conversion, err := h.service.Convert(r.Context(), from, to, amount)
	if err != nil {
		var amountErr *entity.InvalidAmountError
		var notFound *entity.CurrencyNotFoundError
		switch {
		case errors.As(err, &amountErr):
			sendErrorResponse(w, h.logger, "Invalid amount",
				err.Error(), http.StatusBadRequest, requestID)
		case errors.As(err, &notFound):
			sendErrorResponse(w, h.logger, "Currency not found",
				err.Error(), http.StatusNotFound, requestID)
		case errors.Is(err, service.ErrTableNotLoaded):
			sendErrorResponse(w, h.logger, "Exchange table not loaded",
				"The exchange table has not been loaded yet. Please try again later.",
				http.StatusServiceUnavailable, requestID)
		default:
			h.logger.Error("Unexpected error in conversion handler", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred. Please try again later.",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	sendJSON(w, http.StatusOK, newConversionResponse(conversion))
}

// ListConversions handles listing the conversions made in this session
func (h *ConversionHandler) ListConversions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	conversions, err := h.service.History(r.Context())
	if err != nil {
		h.logger.Error("Failed to list conversions", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while listing conversions",
			http.StatusInternalServerError, requestID)
		return
	}

	resp := make([]ConversionResponse, 0, len(conversions))
	for _, c := range conversions {
		resp = append(resp, newConversionResponse(c))
	}

	sendJSON(w, http.StatusOK, resp)
}

// GetConversion handles retrieving a recorded conversion by ID
func (h *ConversionHandler) GetConversion(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	conversion, err := h.service.GetConversion(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrConversionNotFound) {
			sendErrorResponse(w, h.logger, "Conversion not found",
				"The requested conversion could not be found", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Unexpected error in get conversion", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while retrieving the conversion",
			http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newConversionResponse(conversion))
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods("GET")
	router.HandleFunc("/conversions", h.ListConversions).Methods("GET")
	router.HandleFunc("/conversions/{id}", h.GetConversion).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /convert",
			"GET /conversions",
			"GET /conversions/{id}",
		},
	})
}
