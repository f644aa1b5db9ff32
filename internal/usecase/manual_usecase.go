package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// ManualUseCase handles creation, update and deletion of manual ledger
// records. Mutations do not touch the merged view directly; they invalidate
// the cached reconciliation so the next pass reflects the change.
type ManualUseCase struct {
	ledger ManualLedgerRepository
	idGen  IDGenerator
	cache  Cache
	logger zerolog.Logger
}

// NewManualUseCase creates a new ManualUseCase. cache may be nil when no
// cached reconciliation layer is configured.
func NewManualUseCase(ledger ManualLedgerRepository, idGen IDGenerator, cache Cache, logger zerolog.Logger) *ManualUseCase {
	return &ManualUseCase{
		ledger: ledger,
		idGen:  idGen,
		cache:  cache,
		logger: logger.With().Str("component", "manual-ledger").Logger(),
	}
}

// CreateManualInput represents input for creating a manual record.
type CreateManualInput struct {
	Kind       string
	Symbol     string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	OccurredAt *time.Time
}

// Create stores a new manual record. Quantity and unit price are coerced to
// their non-negative magnitude; direction is carried by the kind, not the
// sign. OccurredAt defaults to now.
func (uc *ManualUseCase) Create(ctx context.Context, input CreateManualInput) (*domain.ManualRecord, error) {
	kind, err := domain.ParseKind(input.Kind)
	if err != nil {
		return nil, err
	}

	symbol := domain.NormalizeSymbol(input.Symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}

	quantity := input.Quantity.Abs()
	if quantity.IsZero() {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	rec := &domain.ManualRecord{
		ID:         domain.ManualIDPrefix + uc.idGen.Generate(),
		Symbol:     symbol,
		Kind:       kind,
		Quantity:   quantity,
		UnitPrice:  input.UnitPrice.Abs(),
		OccurredAt: occurredAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.ledger.Create(ctx, rec); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("id", rec.ID).Str("symbol", symbol).Str("kind", string(kind)).Msg("manual record created")
	uc.invalidate(ctx, symbol)

	return rec, nil
}

// UpdateManualInput represents the optional fields of an update. Nil fields
// keep their current value.
type UpdateManualInput struct {
	Kind       *string
	Symbol     *string
	Quantity   *decimal.Decimal
	UnitPrice  *decimal.Decimal
	OccurredAt *time.Time
}

// Update modifies an existing manual record. Ids outside the manual namespace
// are rejected outright: exchange fills are immutable snapshots.
func (uc *ManualUseCase) Update(ctx context.Context, id string, input UpdateManualInput) (*domain.ManualRecord, error) {
	if !domain.IsManualID(id) {
		return nil, domain.ErrNotManualRecord
	}

	rec, err := uc.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousSymbol := rec.Symbol

	if input.Kind != nil {
		kind, err := domain.ParseKind(*input.Kind)
		if err != nil {
			return nil, err
		}
		rec.Kind = kind
	}
	if input.Symbol != nil {
		symbol := domain.NormalizeSymbol(*input.Symbol)
		if symbol == "" {
			return nil, domain.ErrInvalidSymbol
		}
		rec.Symbol = symbol
	}
	if input.Quantity != nil {
		quantity := input.Quantity.Abs()
		if quantity.IsZero() {
			return nil, domain.ErrInvalidQuantity
		}
		rec.Quantity = quantity
	}
	if input.UnitPrice != nil {
		rec.UnitPrice = input.UnitPrice.Abs()
	}
	if input.OccurredAt != nil {
		rec.OccurredAt = input.OccurredAt.UTC()
	}
	rec.UpdatedAt = time.Now().UTC()

	if err := uc.ledger.Update(ctx, rec); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("id", rec.ID).Str("symbol", rec.Symbol).Msg("manual record updated")
	uc.invalidate(ctx, previousSymbol, rec.Symbol)

	return rec, nil
}

// Delete removes a manual record. Deleting a missing id surfaces a not-found
// error rather than succeeding silently.
func (uc *ManualUseCase) Delete(ctx context.Context, id string) error {
	if !domain.IsManualID(id) {
		return domain.ErrNotManualRecord
	}

	rec, err := uc.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.ledger.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info().Str("id", id).Str("symbol", rec.Symbol).Msg("manual record deleted")
	uc.invalidate(ctx, rec.Symbol)

	return nil
}

// List returns the full manual ledger.
func (uc *ManualUseCase) List(ctx context.Context) ([]*domain.ManualRecord, error) {
	return uc.ledger.List(ctx)
}

// invalidate drops every cached view the mutation can have gone stale.
func (uc *ManualUseCase) invalidate(ctx context.Context, symbols ...string) {
	if uc.cache == nil {
		return
	}
	keys := []string{summaryCacheKey, transactionsCacheKey}
	for _, s := range symbols {
		keys = append(keys, reconcileCacheKey(domain.NormalizeSymbol(s)))
	}
	for _, key := range keys {
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
		}
	}
}
