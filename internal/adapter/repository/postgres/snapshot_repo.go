package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// SnapshotRepository implements usecase.SnapshotRepository.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Create stores a portfolio snapshot.
func (r *SnapshotRepository) Create(ctx context.Context, snap *domain.PortfolioSnapshot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO portfolio_snapshots (id, total_value, asset_count, taken_at)
		VALUES ($1, $2, $3, $4)`,
		snap.ID,
		decimalToNumeric(snap.TotalValue),
		snap.AssetCount,
		timeToPgTimestamptz(snap.TakenAt),
	)

	return err
}

// ListAsc returns all snapshots, oldest first.
func (r *SnapshotRepository) ListAsc(ctx context.Context) ([]*domain.PortfolioSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, total_value, asset_count, taken_at
		FROM portfolio_snapshots
		ORDER BY taken_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := make([]*domain.PortfolioSnapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}

// LatestBefore returns the most recent snapshot taken at or before the given
// time, or nil when none exists yet.
func (r *SnapshotRepository) LatestBefore(ctx context.Context, at time.Time) (*domain.PortfolioSnapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, total_value, asset_count, taken_at
		FROM portfolio_snapshots
		WHERE taken_at <= $1
		ORDER BY taken_at DESC
		LIMIT 1`, timeToPgTimestamptz(at))

	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return snap, nil
}

func scanSnapshot(row pgx.Row) (*domain.PortfolioSnapshot, error) {
	var (
		snap       domain.PortfolioSnapshot
		totalValue pgtype.Numeric
		takenAt    pgtype.Timestamptz
	)

	err := row.Scan(&snap.ID, &totalValue, &snap.AssetCount, &takenAt)
	if err != nil {
		return nil, err
	}

	snap.TotalValue = numericToDecimal(totalValue)
	snap.TakenAt = takenAt.Time

	return &snap, nil
}
