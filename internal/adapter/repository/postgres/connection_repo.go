package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// ConnectionRepository implements usecase.ConnectionDirectory.
type ConnectionRepository struct {
	pool *pgxpool.Pool
}

// NewConnectionRepository creates a new ConnectionRepository.
func NewConnectionRepository(pool *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{pool: pool}
}

// Create registers an exchange connection.
func (r *ConnectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO connections (id, exchange, label, api_key, api_secret, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		conn.ID,
		conn.Exchange,
		conn.Label,
		conn.APIKey,
		conn.APISecret,
		timeToPgTimestamptz(conn.CreatedAt),
	)

	return err
}

// GetByID retrieves a connection by ID.
func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, exchange, label, api_key, api_secret, created_at
		FROM connections
		WHERE id = $1`, id)

	conn, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}

		return nil, err
	}

	return conn, nil
}

// List returns all connections in registration order.
func (r *ConnectionRepository) List(ctx context.Context) ([]*domain.Connection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, exchange, label, api_key, api_secret, created_at
		FROM connections
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := make([]*domain.Connection, 0)
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}

	return conns, rows.Err()
}

// Delete removes a connection.
func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConnectionNotFound
	}

	return nil
}

func scanConnection(row pgx.Row) (*domain.Connection, error) {
	var (
		conn      domain.Connection
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&conn.ID, &conn.Exchange, &conn.Label, &conn.APIKey, &conn.APISecret, &createdAt)
	if err != nil {
		return nil, err
	}

	conn.CreatedAt = createdAt.Time

	return &conn, nil
}
