package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// ConnectionDirectory defines data access for configured exchange credentials.
type ConnectionDirectory interface {
	List(ctx context.Context) ([]*domain.Connection, error)
	GetByID(ctx context.Context, id string) (*domain.Connection, error)
	Create(ctx context.Context, conn *domain.Connection) error
	Delete(ctx context.Context, id string) error
}

// ExchangeProvider fetches one connection's balance snapshot and trade
// history, already normalized into the common transaction shape.
type ExchangeProvider interface {
	Balances(ctx context.Context, conn *domain.Connection) (map[string]decimal.Decimal, error)
	Trades(ctx context.Context, conn *domain.Connection) ([]domain.Transaction, error)
}

// ManualLedgerRepository defines data access for user-entered records.
type ManualLedgerRepository interface {
	Create(ctx context.Context, rec *domain.ManualRecord) error
	GetByID(ctx context.Context, id string) (*domain.ManualRecord, error)
	Update(ctx context.Context, rec *domain.ManualRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.ManualRecord, error)
}

// PriceSource returns current spot prices per symbol in display currency.
type PriceSource interface {
	Prices(ctx context.Context) (map[string]decimal.Decimal, error)
}

// SnapshotRepository defines data access for portfolio value snapshots.
type SnapshotRepository interface {
	Create(ctx context.Context, snap *domain.PortfolioSnapshot) error
	ListAsc(ctx context.Context) ([]*domain.PortfolioSnapshot, error)
	LatestBefore(ctx context.Context, at time.Time) (*domain.PortfolioSnapshot, error)
}

// AlertRepository defines data access for price alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.PriceAlert) error
	GetByID(ctx context.Context, id string) (*domain.PriceAlert, error)
	Update(ctx context.Context, alert *domain.PriceAlert) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.PriceAlert, error)
	ListActive(ctx context.Context) ([]*domain.PriceAlert, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
