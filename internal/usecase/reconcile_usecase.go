package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/infrastructure/metrics"
)

// Reconciler produces the reconciled balance and history view for one symbol.
type Reconciler interface {
	Reconcile(ctx context.Context, symbol string) (*ReconcileResult, error)
}

// ReconcileResult is the merged view for a single asset: one consistent
// balance plus the time-ordered transaction history it was derived from,
// both taken from the same snapshot round.
type ReconcileResult struct {
	Symbol       string               `json:"symbol"`
	Balance      decimal.Decimal      `json:"balance"`
	Price        decimal.Decimal      `json:"price"`
	Value        decimal.Decimal      `json:"value"`
	Transactions []domain.Transaction `json:"transactions"`
	SourceErrors []SourceError        `json:"source_errors,omitempty"`
}

// ReconcileUseCase merges balances and trade histories from every configured
// exchange connection with the manual ledger. Aggregation is best-effort:
// a single source failing contributes nothing and is reported, it never
// fails the pass. Only losing the connection directory or the manual ledger
// is fatal, because there is nothing to reconcile without them.
type ReconcileUseCase struct {
	connections   ConnectionDirectory
	exchange      ExchangeProvider
	ledger        ManualLedgerRepository
	prices        PriceSource
	sourceTimeout time.Duration
	logger        zerolog.Logger
}

// NewReconcileUseCase creates a new ReconcileUseCase.
func NewReconcileUseCase(
	connections ConnectionDirectory,
	exchange ExchangeProvider,
	ledger ManualLedgerRepository,
	prices PriceSource,
	sourceTimeout time.Duration,
	logger zerolog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		connections:   connections,
		exchange:      exchange,
		ledger:        ledger,
		prices:        prices,
		sourceTimeout: sourceTimeout,
		logger:        logger.With().Str("component", "reconcile").Logger(),
	}
}

// Reconcile produces the current balance and newest-first transaction history
// for symbol. Strictly read-only. An unknown symbol yields an empty result,
// not an error.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, symbol string) (*ReconcileResult, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}

	start := time.Now()

	conns, err := uc.connections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	var sourceErrs []SourceError

	price := uc.spotPrice(ctx, symbol, &sourceErrs)

	results := fanOutConnections(ctx, uc.exchange, conns, uc.sourceTimeout, uc.logger)

	exchangeBalance := decimal.Zero
	txs := make([]domain.Transaction, 0)
	for i := range results {
		sourceErrs = append(sourceErrs, results[i].sourceErrors()...)
		if b, ok := results[i].balances[symbol]; ok {
			exchangeBalance = exchangeBalance.Add(b)
		}
		for _, tx := range results[i].trades {
			if tx.Symbol == symbol {
				txs = append(txs, tx)
			}
		}
	}

	records, err := uc.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching manual ledger: %w", err)
	}

	// The manual balance fold and the manual transaction list are built in
	// the same pass, so they can never come from two different snapshots.
	manualBalance := decimal.Zero
	for _, rec := range records {
		if domain.NormalizeSymbol(rec.Symbol) != symbol {
			continue
		}
		tx := rec.Transaction()
		if tx.Kind.IsInflow() {
			manualBalance = manualBalance.Add(tx.Quantity)
		} else {
			manualBalance = manualBalance.Sub(tx.Quantity)
		}
		txs = append(txs, tx)
	}

	domain.SortNewestFirst(txs)

	balance := exchangeBalance.Add(manualBalance)

	metrics.ObserveReconcile(time.Since(start), len(sourceErrs) > 0)
	uc.logger.Debug().
		Str("symbol", symbol).
		Str("balance", balance.String()).
		Int("transactions", len(txs)).
		Int("source_errors", len(sourceErrs)).
		Msg("reconciled")

	return &ReconcileResult{
		Symbol:       symbol,
		Balance:      balance,
		Price:        price,
		Value:        balance.Mul(price),
		Transactions: txs,
		SourceErrors: sourceErrs,
	}, nil
}

// spotPrice fetches the display price for symbol. The price source is just
// another best-effort source: on failure the view renders with a zero price.
func (uc *ReconcileUseCase) spotPrice(ctx context.Context, symbol string, sourceErrs *[]SourceError) decimal.Decimal {
	cctx, cancel := context.WithTimeout(ctx, uc.sourceTimeout)
	defer cancel()

	priceMap, err := uc.prices.Prices(cctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("price fetch failed, rendering with zero price")
		metrics.SourceFailure("prices", "prices")
		*sourceErrs = append(*sourceErrs, SourceError{Op: "prices", Reason: err.Error()})
		return decimal.Zero
	}

	if p, ok := priceMap[symbol]; ok {
		return p
	}
	if symbol == "USDT" {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}
