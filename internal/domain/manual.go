package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ManualIDPrefix namespaces manual record ids so they can never collide with
// exchange trade ids and the UI can tell mutable rows from immutable ones.
const ManualIDPrefix = "man-"

// ManualRecord is a user-entered ledger row. Unlike exchange fills these are
// mutable through the manual ledger store.
type ManualRecord struct {
	ID         string
	Symbol     string
	Kind       Kind
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsManualID reports whether an id belongs to the manual namespace.
func IsManualID(id string) bool {
	return strings.HasPrefix(id, ManualIDPrefix)
}

// Transaction normalizes the record into the common transaction shape.
// A missing unit price defaults to zero, so does the gross value.
func (r *ManualRecord) Transaction() Transaction {
	return Transaction{
		ID:         r.ID,
		Kind:       r.Kind,
		Symbol:     r.Symbol,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		GrossValue: r.Quantity.Mul(r.UnitPrice),
		OccurredAt: r.OccurredAt,
		Origin:     OriginManual,
	}
}
