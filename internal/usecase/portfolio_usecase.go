package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/infrastructure/metrics"
)

// Holdings strictly below this threshold are treated as dust and hidden from
// the summary. A holding exactly at the threshold still shows.
var dustThreshold = decimal.RequireFromString("0.000001")

// AssetSummary is one row of the portfolio overview.
type AssetSummary struct {
	Symbol        string          `json:"symbol"`
	Balance       decimal.Decimal `json:"balance"`
	Price         decimal.Decimal `json:"price"`
	Value         decimal.Decimal `json:"value"`
	AvgBuyPrice   decimal.Decimal `json:"avg_buy_price"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	TotalPnL      decimal.Decimal `json:"total_pnl"`
}

// PerformanceReport compares the current portfolio value against the
// snapshot taken at least 24 hours ago.
type PerformanceReport struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	ChangeValue   decimal.Decimal `json:"change_value"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// PortfolioUseCase aggregates every source across all symbols: the overview
// with cost basis and PnL, the merged transaction feed, and the snapshot
// based performance comparison. It shares the engine's fan-out and failure
// policy.
type PortfolioUseCase struct {
	connections   ConnectionDirectory
	exchange      ExchangeProvider
	ledger        ManualLedgerRepository
	prices        PriceSource
	snapshots     SnapshotRepository
	idGen         IDGenerator
	cache         Cache
	sourceTimeout time.Duration
	cacheTTL      time.Duration
	logger        zerolog.Logger
}

// NewPortfolioUseCase creates a new PortfolioUseCase. cache may be nil.
func NewPortfolioUseCase(
	connections ConnectionDirectory,
	exchange ExchangeProvider,
	ledger ManualLedgerRepository,
	prices PriceSource,
	snapshots SnapshotRepository,
	idGen IDGenerator,
	cache Cache,
	sourceTimeout time.Duration,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *PortfolioUseCase {
	return &PortfolioUseCase{
		connections:   connections,
		exchange:      exchange,
		ledger:        ledger,
		prices:        prices,
		snapshots:     snapshots,
		idGen:         idGen,
		cache:         cache,
		sourceTimeout: sourceTimeout,
		cacheTTL:      cacheTTL,
		logger:        logger.With().Str("component", "portfolio").Logger(),
	}
}

// assetStats accumulates the chronological cost-basis fold for one symbol.
type assetStats struct {
	balance     decimal.Decimal
	avgBuyPrice decimal.Decimal
	realizedPnL decimal.Decimal
}

// Summary produces the per-asset overview: reconciled balance, average buy
// price, realized and unrealized PnL, and value at the current spot price.
func (uc *PortfolioUseCase) Summary(ctx context.Context) ([]AssetSummary, error) {
	if cached, ok := uc.cachedSummary(ctx); ok {
		return cached, nil
	}

	conns, err := uc.connections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	records, err := uc.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching manual ledger: %w", err)
	}

	results := fanOutConnections(ctx, uc.exchange, conns, uc.sourceTimeout, uc.logger)

	allTxs := mergeTransactions(results, records)

	// Cost basis needs the fold to run oldest-first.
	sort.SliceStable(allTxs, func(i, j int) bool {
		return allTxs[i].OccurredAt.Before(allTxs[j].OccurredAt)
	})

	stats := make(map[string]*assetStats)
	for _, tx := range allTxs {
		s, ok := stats[tx.Symbol]
		if !ok {
			s = &assetStats{balance: decimal.Zero, avgBuyPrice: decimal.Zero, realizedPnL: decimal.Zero}
			stats[tx.Symbol] = s
		}

		switch {
		case tx.Kind == domain.KindBuy:
			total := s.balance.Add(tx.Quantity)
			if total.IsPositive() {
				held := s.balance.Mul(s.avgBuyPrice)
				bought := tx.Quantity.Mul(tx.UnitPrice)
				s.avgBuyPrice = held.Add(bought).Div(total)
			}
			s.balance = total
		case tx.Kind == domain.KindDeposit:
			s.balance = s.balance.Add(tx.Quantity)
		default: // Sell, Withdraw
			if s.avgBuyPrice.IsPositive() {
				s.realizedPnL = s.realizedPnL.Add(tx.UnitPrice.Sub(s.avgBuyPrice).Mul(tx.Quantity))
			}
			s.balance = s.balance.Sub(tx.Quantity)
			if s.balance.IsNegative() {
				s.balance = decimal.Zero
			}
		}
	}

	// Reconcile against real balances: exchange snapshots plus the manual
	// fold, not the cost-basis fold, decide what the user actually holds.
	realBalances := make(map[string]decimal.Decimal)
	for i := range results {
		for symbol, qty := range results[i].balances {
			realBalances[symbol] = realBalances[symbol].Add(qty)
		}
	}
	for _, rec := range records {
		symbol := domain.NormalizeSymbol(rec.Symbol)
		if rec.Kind.IsInflow() {
			realBalances[symbol] = realBalances[symbol].Add(rec.Quantity)
		} else {
			realBalances[symbol] = realBalances[symbol].Sub(rec.Quantity)
		}
	}

	priceMap, err := uc.prices.Prices(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("price fetch failed, rendering with zero prices")
		priceMap = map[string]decimal.Decimal{}
	}

	summaries := make([]AssetSummary, 0, len(realBalances))
	for symbol, balance := range realBalances {
		if balance.LessThan(dustThreshold) {
			continue
		}

		price := priceMap[symbol]
		if price.IsZero() && symbol == "USDT" {
			price = decimal.NewFromInt(1)
		}

		s := stats[symbol]
		if s == nil {
			s = &assetStats{balance: decimal.Zero, avgBuyPrice: decimal.Zero, realizedPnL: decimal.Zero}
		}

		unrealized := decimal.Zero
		if s.avgBuyPrice.IsPositive() {
			unrealized = price.Sub(s.avgBuyPrice).Mul(balance)
		}

		summaries = append(summaries, AssetSummary{
			Symbol:        symbol,
			Balance:       balance,
			Price:         price,
			Value:         balance.Mul(price),
			AvgBuyPrice:   s.avgBuyPrice,
			RealizedPnL:   s.realizedPnL,
			UnrealizedPnL: unrealized,
			TotalPnL:      s.realizedPnL.Add(unrealized),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Value.Equal(summaries[j].Value) {
			return summaries[i].Value.GreaterThan(summaries[j].Value)
		}
		return summaries[i].Symbol < summaries[j].Symbol
	})

	uc.storeSummary(ctx, summaries)

	return summaries, nil
}

// Transactions returns the merged all-symbol feed, newest first.
func (uc *PortfolioUseCase) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	conns, err := uc.connections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	records, err := uc.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching manual ledger: %w", err)
	}

	results := fanOutConnections(ctx, uc.exchange, conns, uc.sourceTimeout, uc.logger)

	txs := mergeTransactions(results, records)
	domain.SortNewestFirst(txs)

	return txs, nil
}

// Performance compares the current total value against the most recent
// snapshot taken at least 24 hours ago.
func (uc *PortfolioUseCase) Performance(ctx context.Context) (*PerformanceReport, error) {
	summaries, err := uc.Summary(ctx)
	if err != nil {
		return nil, err
	}

	current := decimal.Zero
	for _, s := range summaries {
		current = current.Add(s.Value)
	}

	report := &PerformanceReport{TotalValue: current, ChangeValue: current, ChangePercent: decimal.Zero}

	past, err := uc.snapshots.LatestBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil || past == nil {
		// No baseline yet: report zero change rather than an infinite gain.
		report.ChangeValue = decimal.Zero
		return report, nil
	}

	report.ChangeValue = current.Sub(past.TotalValue)
	if past.TotalValue.IsPositive() {
		report.ChangePercent = report.ChangeValue.Div(past.TotalValue).Mul(decimal.NewFromInt(100))
	}

	return report, nil
}

// TakeSnapshot persists the current total portfolio value. Empty portfolios
// are not recorded.
func (uc *PortfolioUseCase) TakeSnapshot(ctx context.Context) error {
	summaries, err := uc.Summary(ctx)
	if err != nil {
		return err
	}

	total := decimal.Zero
	assetCount := 0
	for _, s := range summaries {
		if s.Value.IsPositive() {
			total = total.Add(s.Value)
			assetCount++
		}
	}

	if !total.IsPositive() {
		return nil
	}

	snap := &domain.PortfolioSnapshot{
		ID:         uc.idGen.Generate(),
		TotalValue: total,
		AssetCount: assetCount,
		TakenAt:    time.Now().UTC(),
	}
	if err := uc.snapshots.Create(ctx, snap); err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}

	metrics.SnapshotTaken()
	uc.logger.Info().Str("total_value", total.String()).Int("assets", assetCount).Msg("portfolio snapshot saved")

	return nil
}

// History returns all snapshots, oldest first, for charting.
func (uc *PortfolioUseCase) History(ctx context.Context) ([]*domain.PortfolioSnapshot, error) {
	return uc.snapshots.ListAsc(ctx)
}

// mergeTransactions concatenates all exchange trades (in directory order)
// with normalized manual records.
func mergeTransactions(results []connResult, records []*domain.ManualRecord) []domain.Transaction {
	txs := make([]domain.Transaction, 0)
	for i := range results {
		txs = append(txs, results[i].trades...)
	}
	for _, rec := range records {
		txs = append(txs, rec.Transaction())
	}
	return txs
}

func (uc *PortfolioUseCase) cachedSummary(ctx context.Context) ([]AssetSummary, bool) {
	if uc.cache == nil {
		return nil, false
	}
	data, err := uc.cache.Get(ctx, summaryCacheKey)
	if err != nil || len(data) == 0 {
		metrics.CacheLookup("summary", false)
		return nil, false
	}
	var summaries []AssetSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		metrics.CacheLookup("summary", false)
		return nil, false
	}
	metrics.CacheLookup("summary", true)
	return summaries, true
}

func (uc *PortfolioUseCase) storeSummary(ctx context.Context, summaries []AssetSummary) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, summaryCacheKey, data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Msg("summary cache write failed")
	}
}
