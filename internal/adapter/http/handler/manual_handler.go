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

// ManualService defines the behavior needed by ManualHandler.
type ManualService interface {
	Create(ctx context.Context, input usecase.CreateManualInput) (*domain.ManualRecord, error)
	Update(ctx context.Context, id string, input usecase.UpdateManualInput) (*domain.ManualRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.ManualRecord, error)
}

// ManualHandler handles manual ledger HTTP requests.
type ManualHandler struct {
	manualUC ManualService
}

// NewManualHandler creates a new ManualHandler.
func NewManualHandler(manualUC ManualService) *ManualHandler {
	return &ManualHandler{manualUC: manualUC}
}

// Create records a manual transaction.
func (h *ManualHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rec, err := h.manualUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create manual transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ManualRecordFromDomain(rec))
}

// Update changes fields of a manual transaction.
func (h *ManualHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record ID", "")
		return
	}

	var req dto.UpdateManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rec, err := h.manualUC.Update(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update manual transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ManualRecordFromDomain(rec))
}

// Delete removes a manual transaction.
func (h *ManualHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record ID", "")
		return
	}

	if err := h.manualUC.Delete(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete manual transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns all manual transactions.
func (h *ManualHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.manualUC.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list manual transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ManualRecordsFromDomain(recs))
}
