package binance

import (
	"strconv"
	"time"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// toTransaction maps one Binance fill onto the common transaction shape. The
// pair symbol loses its quote suffix, so a BTCUSDT fill is recorded under BTC.
// A missing quoteQty is reconstructed from qty * price.
func toTransaction(t trade, connectionID string) domain.Transaction {
	kind := domain.KindSell
	if t.IsBuyer {
		kind = domain.KindBuy
	}

	gross := t.QuoteQty
	if !gross.IsPositive() {
		gross = t.Qty.Mul(t.Price)
	}

	return domain.Transaction{
		ID:               strconv.FormatInt(t.ID, 10),
		Kind:             kind,
		Symbol:           domain.BaseSymbol(t.Symbol),
		Quantity:         t.Qty,
		UnitPrice:        t.Price,
		GrossValue:       gross,
		OccurredAt:       time.UnixMilli(t.Time).UTC(),
		Origin:           domain.OriginExchange,
		SourceConnection: connectionID,
	}
}
