package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// AlertRepository implements usecase.AlertRepository.
type AlertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository creates a new AlertRepository.
func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

// Create stores a new price alert.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.PriceAlert) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO price_alerts (id, symbol, condition, target_price, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		alert.ID,
		alert.Symbol,
		string(alert.Condition),
		decimalToNumeric(alert.TargetPrice),
		alert.Active,
		timeToPgTimestamptz(alert.CreatedAt),
	)

	return err
}

// GetByID retrieves an alert by id.
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*domain.PriceAlert, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, symbol, condition, target_price, active, triggered_at, triggered_price, created_at
		FROM price_alerts
		WHERE id = $1`, id)

	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlertNotFound
		}

		return nil, err
	}

	return alert, nil
}

// Update persists the alert's trigger state.
func (r *AlertRepository) Update(ctx context.Context, alert *domain.PriceAlert) error {
	var triggeredAt pgtype.Timestamptz
	if alert.TriggeredAt != nil {
		triggeredAt = timeToPgTimestamptz(*alert.TriggeredAt)
	}
	var triggeredPrice pgtype.Numeric
	if alert.TriggeredPrice != nil {
		triggeredPrice = decimalToNumeric(*alert.TriggeredPrice)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE price_alerts
		SET active = $2, triggered_at = $3, triggered_price = $4
		WHERE id = $1`,
		alert.ID,
		alert.Active,
		triggeredAt,
		triggeredPrice,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

// Delete removes an alert.
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM price_alerts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

// List returns all alerts, oldest first.
func (r *AlertRepository) List(ctx context.Context) ([]*domain.PriceAlert, error) {
	return r.list(ctx, `
		SELECT id, symbol, condition, target_price, active, triggered_at, triggered_price, created_at
		FROM price_alerts
		ORDER BY created_at ASC, id ASC`)
}

// ListActive returns the alerts still armed.
func (r *AlertRepository) ListActive(ctx context.Context) ([]*domain.PriceAlert, error) {
	return r.list(ctx, `
		SELECT id, symbol, condition, target_price, active, triggered_at, triggered_price, created_at
		FROM price_alerts
		WHERE active
		ORDER BY created_at ASC, id ASC`)
}

func (r *AlertRepository) list(ctx context.Context, query string) ([]*domain.PriceAlert, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]*domain.PriceAlert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

func scanAlert(row pgx.Row) (*domain.PriceAlert, error) {
	var (
		alert          domain.PriceAlert
		condition      string
		targetPrice    pgtype.Numeric
		triggeredAt    pgtype.Timestamptz
		triggeredPrice pgtype.Numeric
		createdAt      pgtype.Timestamptz
	)

	err := row.Scan(&alert.ID, &alert.Symbol, &condition, &targetPrice, &alert.Active, &triggeredAt, &triggeredPrice, &createdAt)
	if err != nil {
		return nil, err
	}

	alert.Condition = domain.AlertCondition(condition)
	alert.TargetPrice = numericToDecimal(targetPrice)
	alert.CreatedAt = createdAt.Time
	if triggeredAt.Valid {
		t := triggeredAt.Time
		alert.TriggeredAt = &t
	}
	if triggeredPrice.Valid {
		p := numericToDecimal(triggeredPrice)
		alert.TriggeredPrice = &p
	}

	return &alert, nil
}
