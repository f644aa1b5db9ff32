package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
	"github.com/coinfolio/coinfolio/internal/usecase/mocks"
)

func newAlertUseCase(alerts *mocks.MockAlertRepository, prices *mocks.MockPriceSource) *usecase.AlertUseCase {
	return usecase.NewAlertUseCase(alerts, prices, mocks.NewMockIDGenerator(), zerolog.Nop())
}

func addAlert(t *testing.T, alerts *mocks.MockAlertRepository, alert *domain.PriceAlert) {
	t.Helper()
	if err := alerts.Create(context.Background(), alert); err != nil {
		t.Fatalf("seeding alert: %v", err)
	}
}

func TestAlertCreate_NormalizesInput(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	uc := newAlertUseCase(alerts, mocks.NewMockPriceSource())

	alert, err := uc.Create(context.Background(), usecase.CreateAlertInput{
		Symbol:      " btc ",
		Condition:   "above",
		TargetPrice: decimal.NewFromInt(90000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if alert.Symbol != "BTC" {
		t.Errorf("expected normalized symbol BTC, got %s", alert.Symbol)
	}
	if alert.Condition != domain.AlertAbove {
		t.Errorf("expected ABOVE, got %s", alert.Condition)
	}
	if !alert.Active {
		t.Error("expected a new alert to be active")
	}
	if alert.TriggeredAt != nil {
		t.Error("expected a new alert to carry no trigger time")
	}
}

func TestAlertCreate_RejectsInvalidInput(t *testing.T) {
	uc := newAlertUseCase(mocks.NewMockAlertRepository(), mocks.NewMockPriceSource())
	ctx := context.Background()

	_, err := uc.Create(ctx, usecase.CreateAlertInput{Symbol: "BTC", Condition: "sideways", TargetPrice: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrUnknownAlertCondition) {
		t.Errorf("expected ErrUnknownAlertCondition, got %v", err)
	}

	_, err = uc.Create(ctx, usecase.CreateAlertInput{Symbol: "  ", Condition: "ABOVE", TargetPrice: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}

	_, err = uc.Create(ctx, usecase.CreateAlertInput{Symbol: "BTC", Condition: "BELOW", TargetPrice: decimal.Zero})
	if !errors.Is(err, domain.ErrInvalidTargetPrice) {
		t.Errorf("expected ErrInvalidTargetPrice, got %v", err)
	}
}

func TestCheckAlerts_TriggersAboveAtTarget(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	addAlert(t, alerts, &domain.PriceAlert{
		ID: "a-1", Symbol: "BTC", Condition: domain.AlertAbove,
		TargetPrice: decimal.NewFromInt(90000), Active: true,
	})

	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		// Exactly at the target counts.
		return map[string]decimal.Decimal{"BTC": decimal.NewFromInt(90000)}, nil
	}

	uc := newAlertUseCase(alerts, prices)
	if err := uc.CheckAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alert, err := alerts.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("fetching alert: %v", err)
	}
	if alert.Active {
		t.Error("expected the alert to be deactivated after firing")
	}
	if alert.TriggeredAt == nil || alert.TriggeredPrice == nil {
		t.Fatal("expected trigger time and price to be recorded")
	}
	if !alert.TriggeredPrice.Equal(decimal.NewFromInt(90000)) {
		t.Errorf("expected triggered price 90000, got %s", alert.TriggeredPrice)
	}
}

func TestCheckAlerts_TriggersBelow(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	addAlert(t, alerts, &domain.PriceAlert{
		ID: "a-1", Symbol: "ETH", Condition: domain.AlertBelow,
		TargetPrice: decimal.NewFromInt(2000), Active: true,
	})

	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		return map[string]decimal.Decimal{"ETH": decimal.NewFromInt(1900)}, nil
	}

	uc := newAlertUseCase(alerts, prices)
	if err := uc.CheckAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alert, _ := alerts.GetByID(context.Background(), "a-1")
	if alert.Active {
		t.Error("expected the BELOW alert to fire at 1900 against target 2000")
	}
}

func TestCheckAlerts_UnmetConditionStaysArmed(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	addAlert(t, alerts, &domain.PriceAlert{
		ID: "a-1", Symbol: "BTC", Condition: domain.AlertAbove,
		TargetPrice: decimal.NewFromInt(90000), Active: true,
	})

	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		return map[string]decimal.Decimal{"BTC": decimal.NewFromInt(80000)}, nil
	}

	uc := newAlertUseCase(alerts, prices)
	if err := uc.CheckAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alert, _ := alerts.GetByID(context.Background(), "a-1")
	if !alert.Active {
		t.Error("expected the alert to stay armed below the target")
	}
}

func TestCheckAlerts_MissingPriceSkipsAlert(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	addAlert(t, alerts, &domain.PriceAlert{
		ID: "a-1", Symbol: "OBSCURE", Condition: domain.AlertAbove,
		TargetPrice: decimal.NewFromInt(1), Active: true,
	})

	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		return map[string]decimal.Decimal{"BTC": decimal.NewFromInt(90000)}, nil
	}

	uc := newAlertUseCase(alerts, prices)
	if err := uc.CheckAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alert, _ := alerts.GetByID(context.Background(), "a-1")
	if !alert.Active {
		t.Error("expected an unquoted symbol to stay armed for the next pass")
	}
}

func TestCheckAlerts_FiresAtMostOnce(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	addAlert(t, alerts, &domain.PriceAlert{
		ID: "a-1", Symbol: "BTC", Condition: domain.AlertAbove,
		TargetPrice: decimal.NewFromInt(90000), Active: true,
	})

	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		return map[string]decimal.Decimal{"BTC": decimal.NewFromInt(95000)}, nil
	}

	uc := newAlertUseCase(alerts, prices)
	ctx := context.Background()
	if err := uc.CheckAlerts(ctx); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	alert, _ := alerts.GetByID(ctx, "a-1")
	firstTrigger := alert.TriggeredAt

	if err := uc.CheckAlerts(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	alert, _ = alerts.GetByID(ctx, "a-1")
	if alert.TriggeredAt != firstTrigger {
		t.Error("expected a fired alert to be left untouched by later passes")
	}
}

func TestCheckAlerts_NoActiveAlertsSkipsPriceFetch(t *testing.T) {
	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		t.Fatal("price feed must not be queried without active alerts")
		return nil, nil
	}

	uc := newAlertUseCase(mocks.NewMockAlertRepository(), prices)
	if err := uc.CheckAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckAlerts_PriceFeedFailurePropagates(t *testing.T) {
	alerts := mocks.NewMockAlertRepository()
	addAlert(t, alerts, &domain.PriceAlert{
		ID: "a-1", Symbol: "BTC", Condition: domain.AlertAbove,
		TargetPrice: decimal.NewFromInt(1), Active: true,
		CreatedAt: time.Now().UTC(),
	})

	prices := mocks.NewMockPriceSource()
	prices.PricesFunc = func(ctx context.Context) (map[string]decimal.Decimal, error) {
		return nil, errors.New("feed down")
	}

	uc := newAlertUseCase(alerts, prices)
	if err := uc.CheckAlerts(context.Background()); err == nil {
		t.Fatal("expected an error when the price feed is down")
	}

	alert, _ := alerts.GetByID(context.Background(), "a-1")
	if !alert.Active {
		t.Error("expected the alert to stay armed when evaluation could not run")
	}
}

func TestAlertDelete_MissingIDSurfacesNotFound(t *testing.T) {
	uc := newAlertUseCase(mocks.NewMockAlertRepository(), mocks.NewMockPriceSource())
	if err := uc.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
}
