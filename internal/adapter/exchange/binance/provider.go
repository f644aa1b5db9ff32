package binance

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// Trade history is pulled for these pairs. Binance has no "all pairs" trade
// endpoint, so the provider queries each pair individually.
var majorPairs = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT"}

// Provider adapts the Binance client to the reconciliation ports. It also
// serves as the spot price source via the public ticker endpoint.
type Provider struct {
	client *Client
	cipher usecase.SecretCipher
	log    zerolog.Logger
}

// NewProvider creates a Provider. cipher decrypts the stored API secret of
// each connection before use.
func NewProvider(client *Client, cipher usecase.SecretCipher, log zerolog.Logger) *Provider {
	return &Provider{
		client: client,
		cipher: cipher,
		log:    log.With().Str("component", "binance_provider").Logger(),
	}
}

var _ usecase.ExchangeProvider = (*Provider)(nil)
var _ usecase.PriceSource = (*Provider)(nil)

// Balances returns nonzero spot balances keyed by asset symbol. Free and
// locked amounts are summed.
func (p *Provider) Balances(ctx context.Context, conn *domain.Connection) (map[string]decimal.Decimal, error) {
	secret, err := p.cipher.Decrypt(conn.APISecret)
	if err != nil {
		return nil, fmt.Errorf("decrypting credential: %w", err)
	}

	acct, err := p.client.Account(ctx, conn.APIKey, secret)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal)
	for _, b := range acct.Balances {
		total := b.Free.Add(b.Locked)
		if total.IsPositive() {
			balances[domain.NormalizeSymbol(b.Asset)] = total
		}
	}
	return balances, nil
}

// Trades returns the account's fills across the major pairs, already mapped
// onto the common transaction shape. A pair that fails is skipped and logged;
// the remaining pairs still contribute.
func (p *Provider) Trades(ctx context.Context, conn *domain.Connection) ([]domain.Transaction, error) {
	secret, err := p.cipher.Decrypt(conn.APISecret)
	if err != nil {
		return nil, fmt.Errorf("decrypting credential: %w", err)
	}

	var txs []domain.Transaction
	var failed int
	for _, pair := range majorPairs {
		fills, err := p.client.MyTrades(ctx, conn.APIKey, secret, pair)
		if err != nil {
			p.log.Warn().Err(err).Str("pair", pair).Str("connection", conn.ID).Msg("trade fetch failed for pair")
			failed++
			continue
		}
		for _, fill := range fills {
			txs = append(txs, toTransaction(fill, conn.ID))
		}
	}

	if failed == len(majorPairs) {
		return nil, fmt.Errorf("all %d trade pairs failed for connection %s", failed, conn.ID)
	}
	return txs, nil
}

// Prices returns current spot prices keyed by base symbol, derived from the
// USDT pairs of the public ticker feed.
func (p *Provider) Prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	tickers, err := p.client.TickerPrices(ctx)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, "USDT") || t.Symbol == "USDT" {
			continue
		}
		prices[domain.BaseSymbol(t.Symbol)] = t.Price
	}
	prices["USDT"] = decimal.NewFromInt(1)
	return prices, nil
}
