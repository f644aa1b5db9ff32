package handler

import (
	"net/http"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// PriceHandler serves current spot prices.
type PriceHandler struct {
	prices usecase.PriceSource
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(prices usecase.PriceSource) *PriceHandler {
	return &PriceHandler{prices: prices}
}

// List returns current prices keyed by symbol.
func (h *PriceHandler) List(w http.ResponseWriter, r *http.Request) {
	prices, err := h.prices.Prices(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to fetch prices", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PriceResponse{Prices: prices})
}
