package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransactionResponse represents one transaction in API responses.
type TransactionResponse struct {
	ID               string          `json:"id"`
	Kind             string          `json:"kind"`
	Symbol           string          `json:"symbol"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	GrossValue       decimal.Decimal `json:"gross_value"`
	OccurredAt       time.Time       `json:"occurred_at"`
	Origin           string          `json:"origin"`
	SourceConnection string          `json:"source_connection,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               tx.ID,
		Kind:             string(tx.Kind),
		Symbol:           tx.Symbol,
		Quantity:         tx.Quantity,
		UnitPrice:        tx.UnitPrice,
		GrossValue:       tx.GrossValue,
		OccurredAt:       tx.OccurredAt,
		Origin:           string(tx.Origin),
		SourceConnection: tx.SourceConnection,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// ReconcileResponse represents a single-asset reconciliation in API responses.
type ReconcileResponse struct {
	Symbol       string                `json:"symbol"`
	Balance      decimal.Decimal       `json:"balance"`
	Price        decimal.Decimal       `json:"price"`
	Value        decimal.Decimal       `json:"value"`
	Transactions []TransactionResponse `json:"transactions"`
	SourceErrors []usecase.SourceError `json:"source_errors,omitempty"`
}

// ReconcileFromResult converts a reconciliation result to a response.
func ReconcileFromResult(res *usecase.ReconcileResult) *ReconcileResponse {
	return &ReconcileResponse{
		Symbol:       res.Symbol,
		Balance:      res.Balance,
		Price:        res.Price,
		Value:        res.Value,
		Transactions: TransactionsFromDomain(res.Transactions),
		SourceErrors: res.SourceErrors,
	}
}

// ManualRecordResponse represents a manual ledger record in API responses.
type ManualRecordResponse struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Kind       string          `json:"kind"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ManualRecordFromDomain converts a domain manual record to a response.
func ManualRecordFromDomain(rec *domain.ManualRecord) *ManualRecordResponse {
	return &ManualRecordResponse{
		ID:         rec.ID,
		Symbol:     rec.Symbol,
		Kind:       string(rec.Kind),
		Quantity:   rec.Quantity,
		UnitPrice:  rec.UnitPrice,
		OccurredAt: rec.OccurredAt,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

// ManualRecordsFromDomain converts domain manual records to responses.
func ManualRecordsFromDomain(recs []*domain.ManualRecord) []*ManualRecordResponse {
	result := make([]*ManualRecordResponse, len(recs))
	for i, rec := range recs {
		result[i] = ManualRecordFromDomain(rec)
	}
	return result
}

// ConnectionResponse represents a connection in API responses. The API secret
// never leaves the server.
type ConnectionResponse struct {
	ID        string    `json:"id"`
	Exchange  string    `json:"exchange"`
	Label     string    `json:"label"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionFromDomain converts a domain connection to a response.
func ConnectionFromDomain(c *domain.Connection) *ConnectionResponse {
	return &ConnectionResponse{
		ID:        c.ID,
		Exchange:  c.Exchange,
		Label:     c.Label,
		APIKey:    maskKey(c.APIKey),
		CreatedAt: c.CreatedAt,
	}
}

// ConnectionsFromDomain converts domain connections to responses.
func ConnectionsFromDomain(conns []*domain.Connection) []*ConnectionResponse {
	result := make([]*ConnectionResponse, len(conns))
	for i, c := range conns {
		result[i] = ConnectionFromDomain(c)
	}
	return result
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// SnapshotResponse represents a portfolio snapshot in API responses.
type SnapshotResponse struct {
	ID         string          `json:"id"`
	TotalValue decimal.Decimal `json:"total_value"`
	AssetCount int             `json:"asset_count"`
	TakenAt    time.Time       `json:"taken_at"`
}

// SnapshotFromDomain converts a domain snapshot to a response.
func SnapshotFromDomain(s *domain.PortfolioSnapshot) *SnapshotResponse {
	return &SnapshotResponse{
		ID:         s.ID,
		TotalValue: s.TotalValue,
		AssetCount: s.AssetCount,
		TakenAt:    s.TakenAt,
	}
}

// SnapshotsFromDomain converts domain snapshots to responses.
func SnapshotsFromDomain(snaps []*domain.PortfolioSnapshot) []*SnapshotResponse {
	result := make([]*SnapshotResponse, len(snaps))
	for i, s := range snaps {
		result[i] = SnapshotFromDomain(s)
	}
	return result
}

// SummaryResponse wraps the asset overview rows with portfolio totals.
type SummaryResponse struct {
	Assets     []usecase.AssetSummary `json:"assets"`
	TotalValue decimal.Decimal        `json:"total_value"`
}

// SummaryFromUseCase builds the overview response.
func SummaryFromUseCase(assets []usecase.AssetSummary) *SummaryResponse {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.Value)
	}
	return &SummaryResponse{Assets: assets, TotalValue: total}
}

// BalancesResponse represents one connection's live balance snapshot.
type BalancesResponse struct {
	ConnectionID string                     `json:"connection_id"`
	Exchange     string                     `json:"exchange"`
	Balances     map[string]decimal.Decimal `json:"balances"`
}

// AlertResponse represents a price alert in API responses. Triggered
// fields are absent while the alert is still armed.
type AlertResponse struct {
	ID             string           `json:"id"`
	Symbol         string           `json:"symbol"`
	Condition      string           `json:"condition"`
	TargetPrice    decimal.Decimal  `json:"target_price"`
	Active         bool             `json:"active"`
	TriggeredAt    *time.Time       `json:"triggered_at,omitempty"`
	TriggeredPrice *decimal.Decimal `json:"triggered_price,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// AlertFromDomain converts a domain price alert to a response.
func AlertFromDomain(a *domain.PriceAlert) *AlertResponse {
	return &AlertResponse{
		ID:             a.ID,
		Symbol:         a.Symbol,
		Condition:      string(a.Condition),
		TargetPrice:    a.TargetPrice,
		Active:         a.Active,
		TriggeredAt:    a.TriggeredAt,
		TriggeredPrice: a.TriggeredPrice,
		CreatedAt:      a.CreatedAt,
	}
}

// AlertsFromDomain converts domain price alerts to responses.
func AlertsFromDomain(alerts []*domain.PriceAlert) []*AlertResponse {
	result := make([]*AlertResponse, len(alerts))
	for i, a := range alerts {
		result[i] = AlertFromDomain(a)
	}
	return result
}

// PriceResponse represents current spot prices keyed by symbol.
type PriceResponse struct {
	Prices map[string]decimal.Decimal `json:"prices"`
}
