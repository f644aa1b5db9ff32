package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/adapter/http/dto"
	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

type manualServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateManualInput) (*domain.ManualRecord, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateManualInput) (*domain.ManualRecord, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context) ([]*domain.ManualRecord, error)
}

func (s *manualServiceStub) Create(ctx context.Context, input usecase.CreateManualInput) (*domain.ManualRecord, error) {
	return s.createFn(ctx, input)
}

func (s *manualServiceStub) Update(ctx context.Context, id string, input usecase.UpdateManualInput) (*domain.ManualRecord, error) {
	return s.updateFn(ctx, id, input)
}

func (s *manualServiceStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *manualServiceStub) List(ctx context.Context) ([]*domain.ManualRecord, error) {
	return s.listFn(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestManualHandler_Create_Success(t *testing.T) {
	record := &domain.ManualRecord{
		ID:       "man-1",
		Symbol:   "BTC",
		Kind:     domain.KindBuy,
		Quantity: decimal.NewFromInt(1),
	}

	var captured usecase.CreateManualInput
	h := NewManualHandler(&manualServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateManualInput) (*domain.ManualRecord, error) {
			captured = input
			return record, nil
		},
	})

	body, _ := json.Marshal(dto.CreateManualRequest{
		Kind:     "BUY",
		Symbol:   "btc",
		Quantity: decimal.NewFromInt(1),
	})

	req := httptest.NewRequest(http.MethodPost, "/manual", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Kind != "BUY" || captured.Symbol != "btc" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.ManualRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "man-1" {
		t.Fatalf("expected record ID man-1, got %s", resp.ID)
	}
}

func TestManualHandler_Create_InvalidJSON(t *testing.T) {
	h := NewManualHandler(&manualServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateManualInput) (*domain.ManualRecord, error) {
			t.Fatal("Create should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/manual", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestManualHandler_Create_ValidationError(t *testing.T) {
	h := NewManualHandler(&manualServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateManualInput) (*domain.ManualRecord, error) {
			return nil, domain.ErrUnknownKind
		},
	})

	body, _ := json.Marshal(dto.CreateManualRequest{Kind: "SWAP", Symbol: "BTC"})
	req := httptest.NewRequest(http.MethodPost, "/manual", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestManualHandler_Update_NotFound(t *testing.T) {
	h := NewManualHandler(&manualServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateManualInput) (*domain.ManualRecord, error) {
			return nil, domain.ErrRecordNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/manual/man-missing", bytes.NewBufferString("{}"))
	req = withURLParam(req, "id", "man-missing")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestManualHandler_Delete_ExchangeID(t *testing.T) {
	h := NewManualHandler(&manualServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrNotManualRecord
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/manual/1849302", nil)
	req = withURLParam(req, "id", "1849302")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for exchange id, got %d", rec.Code)
	}
}

func TestManualHandler_Delete_Success(t *testing.T) {
	h := NewManualHandler(&manualServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/manual/man-1", nil)
	req = withURLParam(req, "id", "man-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestManualHandler_List_ServiceError(t *testing.T) {
	h := NewManualHandler(&manualServiceStub{
		listFn: func(ctx context.Context) ([]*domain.ManualRecord, error) {
			return nil, errors.New("db error")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/manual", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
