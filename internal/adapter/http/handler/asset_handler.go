package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// AssetHandler serves single-asset reconciliations.
type AssetHandler struct {
	reconciler usecase.Reconciler
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(reconciler usecase.Reconciler) *AssetHandler {
	return &AssetHandler{reconciler: reconciler}
}

// Get reconciles one asset across every source.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol", "")
		return
	}

	result, err := h.reconciler.Reconcile(r.Context(), symbol)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reconcile asset", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileFromResult(result))
}
