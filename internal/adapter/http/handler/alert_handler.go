package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// AlertService defines the behavior needed by AlertHandler.
type AlertService interface {
	Create(ctx context.Context, input usecase.CreateAlertInput) (*domain.PriceAlert, error)
	List(ctx context.Context) ([]*domain.PriceAlert, error)
	Delete(ctx context.Context, id string) error
}

// AlertHandler handles price alert HTTP requests.
type AlertHandler struct {
	alertUC AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertUC AlertService) *AlertHandler {
	return &AlertHandler{alertUC: alertUC}
}

// Create arms a new price alert.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	alert, err := h.alertUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create alert", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AlertFromDomain(alert))
}

// List returns all alerts, fired ones included.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertUC.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AlertsFromDomain(alerts))
}

// Delete removes an alert.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing alert ID", "")
		return
	}

	if err := h.alertUC.Delete(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete alert", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
