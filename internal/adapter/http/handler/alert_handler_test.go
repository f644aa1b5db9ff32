package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

type alertServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAlertInput) (*domain.PriceAlert, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *alertServiceStub) Create(ctx context.Context, input usecase.CreateAlertInput) (*domain.PriceAlert, error) {
	return s.createFn(ctx, input)
}

func (s *alertServiceStub) List(ctx context.Context) ([]*domain.PriceAlert, error) {
	return nil, nil
}

func (s *alertServiceStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestAlertHandler_Create(t *testing.T) {
	svc := &alertServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAlertInput) (*domain.PriceAlert, error) {
			return &domain.PriceAlert{
				ID:          "alert-1",
				Symbol:      "BTC",
				Condition:   domain.AlertAbove,
				TargetPrice: input.TargetPrice,
				Active:      true,
			}, nil
		},
	}
	h := NewAlertHandler(svc)

	body := `{"symbol": "BTC", "condition": "ABOVE", "target_price": "90000"}`
	req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AlertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "alert-1" || resp.Condition != "ABOVE" {
		t.Fatalf("unexpected alert response: %+v", resp)
	}
	if !resp.TargetPrice.Equal(decimal.NewFromInt(90000)) {
		t.Fatalf("expected target price 90000, got %s", resp.TargetPrice)
	}
	if resp.TriggeredAt != nil {
		t.Fatal("expected no triggered_at on a fresh alert")
	}
}

func TestAlertHandler_Create_BadCondition(t *testing.T) {
	svc := &alertServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAlertInput) (*domain.PriceAlert, error) {
			return nil, domain.ErrUnknownAlertCondition
		},
	}
	h := NewAlertHandler(svc)

	body := `{"symbol": "BTC", "condition": "SIDEWAYS", "target_price": "1"}`
	req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAlertHandler_Delete_NotFound(t *testing.T) {
	svc := &alertServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrAlertNotFound
		},
	}
	h := NewAlertHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/alerts/nope", nil)
	req = withURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
