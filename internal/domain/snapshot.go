package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot records the total portfolio value at a point in time.
// Snapshots back the 24h performance comparison.
type PortfolioSnapshot struct {
	ID         string
	TotalValue decimal.Decimal
	AssetCount int
	TakenAt    time.Time
}
