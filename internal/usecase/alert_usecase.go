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

// AlertUseCase manages price alerts and evaluates them against the spot
// price feed. Triggering only flips the alert's state; there is no delivery
// channel, the dashboard polls the list.
type AlertUseCase struct {
	alerts AlertRepository
	prices PriceSource
	idGen  IDGenerator
	logger zerolog.Logger
}

// NewAlertUseCase creates a new AlertUseCase.
func NewAlertUseCase(alerts AlertRepository, prices PriceSource, idGen IDGenerator, logger zerolog.Logger) *AlertUseCase {
	return &AlertUseCase{
		alerts: alerts,
		prices: prices,
		idGen:  idGen,
		logger: logger.With().Str("component", "alerts").Logger(),
	}
}

// CreateAlertInput represents input for creating a price alert.
type CreateAlertInput struct {
	Symbol      string
	Condition   string
	TargetPrice decimal.Decimal
}

// Create registers a new active alert.
func (uc *AlertUseCase) Create(ctx context.Context, input CreateAlertInput) (*domain.PriceAlert, error) {
	symbol := domain.NormalizeSymbol(input.Symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}

	condition, err := domain.ParseAlertCondition(input.Condition)
	if err != nil {
		return nil, err
	}

	if !input.TargetPrice.IsPositive() {
		return nil, domain.ErrInvalidTargetPrice
	}

	alert := &domain.PriceAlert{
		ID:          uc.idGen.Generate(),
		Symbol:      symbol,
		Condition:   condition,
		TargetPrice: input.TargetPrice,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("id", alert.ID).
		Str("symbol", symbol).
		Str("condition", string(condition)).
		Str("target", input.TargetPrice.String()).
		Msg("price alert created")

	return alert, nil
}

// List returns all alerts, triggered ones included.
func (uc *AlertUseCase) List(ctx context.Context) ([]*domain.PriceAlert, error) {
	return uc.alerts.List(ctx)
}

// Delete removes an alert. Deleting a missing id surfaces a not-found error.
func (uc *AlertUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.alerts.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info().Str("id", id).Msg("price alert deleted")
	return nil
}

// CheckAlerts evaluates every active alert against the current spot prices
// and deactivates the ones that fire. A symbol without a quote is skipped, it
// stays armed for the next pass. One failing update does not stop the rest.
func (uc *AlertUseCase) CheckAlerts(ctx context.Context) error {
	active, err := uc.alerts.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listing active alerts: %w", err)
	}
	if len(active) == 0 {
		return nil
	}

	priceMap, err := uc.prices.Prices(ctx)
	if err != nil {
		return fmt.Errorf("fetching prices: %w", err)
	}

	now := time.Now().UTC()
	for _, alert := range active {
		price, ok := priceMap[alert.Symbol]
		if !ok {
			continue
		}
		if !alert.ShouldTrigger(price) {
			continue
		}

		alert.Trigger(price, now)
		if err := uc.alerts.Update(ctx, alert); err != nil {
			uc.logger.Warn().Err(err).Str("id", alert.ID).Msg("failed to persist triggered alert")
			continue
		}

		metrics.AlertTriggered()
		uc.logger.Info().
			Str("id", alert.ID).
			Str("symbol", alert.Symbol).
			Str("condition", string(alert.Condition)).
			Str("target", alert.TargetPrice.String()).
			Str("price", price.String()).
			Msg("price alert triggered")
	}

	return nil
}
