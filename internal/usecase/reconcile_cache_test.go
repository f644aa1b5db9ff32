package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/usecase"
	"github.com/coinfolio/coinfolio/internal/usecase/mocks"
)

// countingReconciler counts how often the inner engine actually runs.
type countingReconciler struct {
	calls  int
	result *usecase.ReconcileResult
	err    error
}

func (c *countingReconciler) Reconcile(ctx context.Context, symbol string) (*usecase.ReconcileResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func TestCachedReconciler_SecondCallServedFromCache(t *testing.T) {
	inner := &countingReconciler{result: &usecase.ReconcileResult{
		Symbol:  "BTC",
		Balance: decimal.NewFromFloat(0.5),
	}}
	cache := mocks.NewMockCache()

	cached := usecase.NewCachedReconciler(inner, cache, 30*time.Second, zerolog.Nop())

	ctx := context.Background()
	first, err := cached.Reconcile(ctx, "btc")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cached.Reconcile(ctx, "BTC")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected one engine run, got %d", inner.calls)
	}
	if !first.Balance.Equal(second.Balance) || first.Symbol != second.Symbol {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestCachedReconciler_InvalidateForcesRefresh(t *testing.T) {
	inner := &countingReconciler{result: &usecase.ReconcileResult{Symbol: "ETH"}}
	cache := mocks.NewMockCache()
	cached := usecase.NewCachedReconciler(inner, cache, 30*time.Second, zerolog.Nop())

	ctx := context.Background()
	if _, err := cached.Reconcile(ctx, "ETH"); err != nil {
		t.Fatalf("prime: %v", err)
	}

	cached.Invalidate(ctx, "eth")

	if _, err := cached.Reconcile(ctx, "ETH"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected a fresh engine run after invalidation, got %d calls", inner.calls)
	}
}

func TestCachedReconciler_ErrorsAreNotCached(t *testing.T) {
	inner := &countingReconciler{err: errors.New("directory unreachable")}
	cached := usecase.NewCachedReconciler(inner, mocks.NewMockCache(), time.Minute, zerolog.Nop())

	ctx := context.Background()
	if _, err := cached.Reconcile(ctx, "BTC"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := cached.Reconcile(ctx, "BTC"); err == nil {
		t.Fatal("expected error on retry")
	}
	if inner.calls != 2 {
		t.Errorf("failed passes must not be cached, got %d calls", inner.calls)
	}
}

func TestCachedReconciler_CacheFailureDegradesToFresh(t *testing.T) {
	inner := &countingReconciler{result: &usecase.ReconcileResult{Symbol: "BTC"}}
	cache := mocks.NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("redis down")
	}
	cache.SetFunc = func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
		return errors.New("redis down")
	}

	cached := usecase.NewCachedReconciler(inner, cache, time.Minute, zerolog.Nop())
	if _, err := cached.Reconcile(context.Background(), "BTC"); err != nil {
		t.Fatalf("cache outage must not fail the view: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected one engine run, got %d", inner.calls)
	}
}
