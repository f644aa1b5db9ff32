package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConnectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotManualRecord):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedExchange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateConnection):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownAlertCondition):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTargetPrice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
