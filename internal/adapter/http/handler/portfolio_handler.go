package handler

import (
	"context"
	"net/http"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// PortfolioService defines the behavior needed by PortfolioHandler.
type PortfolioService interface {
	Summary(ctx context.Context) ([]usecase.AssetSummary, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Performance(ctx context.Context) (*usecase.PerformanceReport, error)
	History(ctx context.Context) ([]*domain.PortfolioSnapshot, error)
}

// PortfolioHandler handles portfolio-wide HTTP requests.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// Summary returns the per-asset overview.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	assets, err := h.portfolioUC.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build portfolio summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(assets))
}

// Transactions returns the merged transaction feed, newest first.
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.portfolioUC.Transactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Performance returns the 24h value comparison.
func (h *PortfolioHandler) Performance(w http.ResponseWriter, r *http.Request) {
	report, err := h.portfolioUC.Performance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute performance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// History returns stored snapshots for charting.
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.portfolioUC.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list snapshots", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SnapshotsFromDomain(snaps))
}
