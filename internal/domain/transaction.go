package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction. Direction is carried by the kind, never by
// the sign of the quantity.
type Kind string

const (
	KindBuy      Kind = "BUY"
	KindSell     Kind = "SELL"
	KindDeposit  Kind = "DEPOSIT"
	KindWithdraw Kind = "WITHDRAW"
)

// ParseKind parses a case-insensitive kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindBuy:
		return KindBuy, nil
	case KindSell:
		return KindSell, nil
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdraw:
		return KindWithdraw, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsInflow reports whether the kind increases the holder's balance.
func (k Kind) IsInflow() bool {
	return k == KindBuy || k == KindDeposit
}

// Origin tags where a transaction came from. Only manual records are mutable.
type Origin string

const (
	OriginExchange Origin = "exchange"
	OriginManual   Origin = "manual"
)

// Transaction is the normalized unit produced by reconciliation, regardless
// of which source reported it.
type Transaction struct {
	ID               string
	Kind             Kind
	Symbol           string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	GrossValue       decimal.Decimal
	OccurredAt       time.Time
	Origin           Origin
	SourceConnection string
}

// SignedQuantity returns the quantity with the direction applied.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Kind.IsInflow() {
		return t.Quantity
	}
	return t.Quantity.Neg()
}

// Balance folds a transaction set into a signed running total. It is a pure
// function of the set; balances have no independent lifecycle.
func Balance(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].SignedQuantity())
	}
	return total
}

// SortNewestFirst orders transactions descending by occurrence time. The sort
// is stable so records with equal timestamps keep their insertion order.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt.After(txs[j].OccurredAt)
	})
}
