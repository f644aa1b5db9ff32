package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/usecase"
)

// CreateManualRequest represents a request to record a manual transaction.
type CreateManualRequest struct {
	Kind       string          `json:"kind"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateManualRequest) ToUseCaseInput() usecase.CreateManualInput {
	return usecase.CreateManualInput{
		Kind:       r.Kind,
		Symbol:     r.Symbol,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		OccurredAt: r.OccurredAt,
	}
}

// UpdateManualRequest represents a partial update of a manual transaction.
// Absent fields keep their current value.
type UpdateManualRequest struct {
	Kind       *string          `json:"kind,omitempty"`
	Symbol     *string          `json:"symbol,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	OccurredAt *time.Time       `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateManualRequest) ToUseCaseInput() usecase.UpdateManualInput {
	return usecase.UpdateManualInput{
		Kind:       r.Kind,
		Symbol:     r.Symbol,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		OccurredAt: r.OccurredAt,
	}
}

// CreateConnectionRequest represents a request to register exchange
// credentials.
type CreateConnectionRequest struct {
	Exchange  string `json:"exchange"`
	Label     string `json:"label"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateConnectionRequest) ToUseCaseInput() usecase.CreateConnectionInput {
	return usecase.CreateConnectionInput{
		Exchange:  r.Exchange,
		Label:     r.Label,
		APIKey:    r.APIKey,
		APISecret: r.APISecret,
	}
}

// CreateAlertRequest represents a request to arm a price alert.
type CreateAlertRequest struct {
	Symbol      string          `json:"symbol"`
	Condition   string          `json:"condition"`
	TargetPrice decimal.Decimal `json:"target_price"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAlertRequest) ToUseCaseInput() usecase.CreateAlertInput {
	return usecase.CreateAlertInput{
		Symbol:      r.Symbol,
		Condition:   r.Condition,
		TargetPrice: r.TargetPrice,
	}
}
