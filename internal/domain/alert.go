package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AlertCondition states which side of the target price fires the alert.
type AlertCondition string

const (
	AlertAbove AlertCondition = "ABOVE"
	AlertBelow AlertCondition = "BELOW"
)

// ParseAlertCondition parses a case-insensitive condition string.
func ParseAlertCondition(s string) (AlertCondition, error) {
	switch AlertCondition(strings.ToUpper(strings.TrimSpace(s))) {
	case AlertAbove:
		return AlertAbove, nil
	case AlertBelow:
		return AlertBelow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlertCondition, s)
}

// PriceAlert watches one symbol against a target price. An alert fires at
// most once: the evaluation pass deactivates it the moment it triggers, and
// the triggered price and time stay on the record for display.
type PriceAlert struct {
	ID             string
	Symbol         string
	Condition      AlertCondition
	TargetPrice    decimal.Decimal
	Active         bool
	TriggeredAt    *time.Time
	TriggeredPrice *decimal.Decimal
	CreatedAt      time.Time
}

// ShouldTrigger reports whether the current price satisfies the alert. The
// target itself counts on both sides.
func (a *PriceAlert) ShouldTrigger(price decimal.Decimal) bool {
	if !a.Active {
		return false
	}
	switch a.Condition {
	case AlertAbove:
		return price.GreaterThanOrEqual(a.TargetPrice)
	case AlertBelow:
		return price.LessThanOrEqual(a.TargetPrice)
	}
	return false
}

// Trigger deactivates the alert and records what fired it.
func (a *PriceAlert) Trigger(price decimal.Decimal, at time.Time) {
	a.Active = false
	a.TriggeredAt = &at
	a.TriggeredPrice = &price
}
