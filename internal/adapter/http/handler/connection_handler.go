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

// ConnectionService defines the behavior needed by ConnectionHandler.
type ConnectionService interface {
	Create(ctx context.Context, input usecase.CreateConnectionInput) (*domain.Connection, error)
	Get(ctx context.Context, id string) (*domain.Connection, error)
	List(ctx context.Context) ([]*domain.Connection, error)
	Delete(ctx context.Context, id string) error
}

// ConnectionHandler handles exchange connection HTTP requests.
type ConnectionHandler struct {
	connectionUC ConnectionService
	provider     usecase.ExchangeProvider
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(connectionUC ConnectionService, provider usecase.ExchangeProvider) *ConnectionHandler {
	return &ConnectionHandler{connectionUC: connectionUC, provider: provider}
}

// Create registers exchange credentials.
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	conn, err := h.connectionUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create connection", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ConnectionFromDomain(conn))
}

// Get retrieves a connection by ID.
func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing connection ID", "")
		return
	}

	conn, err := h.connectionUC.Get(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get connection", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConnectionFromDomain(conn))
}

// List returns all configured connections.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	conns, err := h.connectionUC.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list connections", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConnectionsFromDomain(conns))
}

// Balances returns the live balance snapshot for one connection, straight
// from the exchange.
func (h *ConnectionHandler) Balances(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.lookup(w, r)
	if !ok {
		return
	}

	balances, err := h.provider.Balances(r.Context(), conn)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to fetch balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesResponse{
		ConnectionID: conn.ID,
		Exchange:     conn.Exchange,
		Balances:     balances,
	})
}

// Trades returns the normalized trade history for one connection.
func (h *ConnectionHandler) Trades(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.lookup(w, r)
	if !ok {
		return
	}

	trades, err := h.provider.Trades(r.Context(), conn)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to fetch trades", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(trades))
}

func (h *ConnectionHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Connection, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing connection ID", "")
		return nil, false
	}

	conn, err := h.connectionUC.Get(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get connection", err.Error())
		return nil, false
	}
	return conn, true
}

// Delete removes a connection.
func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing connection ID", "")
		return
	}

	if err := h.connectionUC.Delete(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete connection", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
