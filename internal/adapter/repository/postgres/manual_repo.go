package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// ManualRepository implements usecase.ManualLedgerRepository.
type ManualRepository struct {
	pool *pgxpool.Pool
}

// NewManualRepository creates a new ManualRepository.
func NewManualRepository(pool *pgxpool.Pool) *ManualRepository {
	return &ManualRepository{pool: pool}
}

// Create inserts a manual ledger record.
func (r *ManualRepository) Create(ctx context.Context, rec *domain.ManualRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO manual_transactions (id, symbol, kind, quantity, unit_price, occurred_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID,
		rec.Symbol,
		string(rec.Kind),
		decimalToNumeric(rec.Quantity),
		decimalToNumeric(rec.UnitPrice),
		timeToPgTimestamptz(rec.OccurredAt),
		timeToPgTimestamptz(rec.CreatedAt),
		timeToPgTimestamptz(rec.UpdatedAt),
	)

	return err
}

// GetByID retrieves a manual record by ID.
func (r *ManualRepository) GetByID(ctx context.Context, id string) (*domain.ManualRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, symbol, kind, quantity, unit_price, occurred_at, created_at, updated_at
		FROM manual_transactions
		WHERE id = $1`, id)

	rec, err := scanManualRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return rec, nil
}

// Update replaces a manual record.
func (r *ManualRepository) Update(ctx context.Context, rec *domain.ManualRecord) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE manual_transactions
		SET symbol = $2, kind = $3, quantity = $4, unit_price = $5, occurred_at = $6, updated_at = $7
		WHERE id = $1`,
		rec.ID,
		rec.Symbol,
		string(rec.Kind),
		decimalToNumeric(rec.Quantity),
		decimalToNumeric(rec.UnitPrice),
		timeToPgTimestamptz(rec.OccurredAt),
		timeToPgTimestamptz(rec.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// Delete removes a manual record.
func (r *ManualRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM manual_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// List returns all manual records, oldest first.
func (r *ManualRepository) List(ctx context.Context) ([]*domain.ManualRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, symbol, kind, quantity, unit_price, occurred_at, created_at, updated_at
		FROM manual_transactions
		ORDER BY occurred_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ManualRecord, 0)
	for rows.Next() {
		rec, err := scanManualRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanManualRecord(row pgx.Row) (*domain.ManualRecord, error) {
	var (
		rec        domain.ManualRecord
		kind       string
		quantity   pgtype.Numeric
		unitPrice  pgtype.Numeric
		occurredAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(&rec.ID, &rec.Symbol, &kind, &quantity, &unitPrice, &occurredAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.Kind = domain.Kind(kind)
	rec.Quantity = numericToDecimal(quantity)
	rec.UnitPrice = numericToDecimal(unitPrice)
	rec.OccurredAt = occurredAt.Time
	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return &rec, nil
}
