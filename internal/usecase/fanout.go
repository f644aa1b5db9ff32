package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/infrastructure/metrics"
)

// SourceError describes one per-source failure that was swallowed at the
// fan-out boundary. It is reported back to the caller for display but never
// escalates the reconciliation itself.
type SourceError struct {
	ConnectionID string `json:"connection_id,omitempty"`
	Exchange     string `json:"exchange,omitempty"`
	Op           string `json:"op"`
	Reason       string `json:"reason"`
}

// connResult holds what a single connection contributed. The balance and
// trade fetches run in separate goroutines, so each writes only its own
// fields.
type connResult struct {
	balances   map[string]decimal.Decimal
	trades     []domain.Transaction
	balanceErr *SourceError
	tradesErr  *SourceError
}

func (r *connResult) sourceErrors() []SourceError {
	var errs []SourceError
	if r.balanceErr != nil {
		errs = append(errs, *r.balanceErr)
	}
	if r.tradesErr != nil {
		errs = append(errs, *r.tradesErr)
	}
	return errs
}

// fanOutConnections issues the balance and trade fetch for every connection
// concurrently and waits for all of them to settle. A failed call contributes
// zero balance and zero transactions from that connection; it is logged and
// counted, not raised. Results are indexed by directory order so that the
// merged output is deterministic regardless of which goroutine finishes first.
func fanOutConnections(ctx context.Context, provider ExchangeProvider, conns []*domain.Connection, timeout time.Duration, logger zerolog.Logger) []connResult {
	results := make([]connResult, len(conns))

	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(2)

		go func(i int, conn *domain.Connection) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			balances, err := provider.Balances(cctx, conn)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("connection", conn.ID).
					Str("exchange", conn.Exchange).
					Msg("balance fetch failed, contributing nothing")
				metrics.SourceFailure(conn.Exchange, "balances")
				results[i].balanceErr = &SourceError{
					ConnectionID: conn.ID,
					Exchange:     conn.Exchange,
					Op:           "balances",
					Reason:       err.Error(),
				}
				return
			}
			results[i].balances = balances
		}(i, conn)

		go func(i int, conn *domain.Connection) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			trades, err := provider.Trades(cctx, conn)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("connection", conn.ID).
					Str("exchange", conn.Exchange).
					Msg("trade fetch failed, contributing nothing")
				metrics.SourceFailure(conn.Exchange, "trades")
				results[i].tradesErr = &SourceError{
					ConnectionID: conn.ID,
					Exchange:     conn.Exchange,
					Op:           "trades",
					Reason:       err.Error(),
				}
				return
			}
			results[i].trades = trades
		}(i, conn)
	}
	wg.Wait()

	return results
}
