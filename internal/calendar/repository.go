package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores per-provider calendar connections.
type Repository interface {
	Create(ctx context.Context, conn *Connection) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	ListByProvider(ctx context.Context, providerID string) ([]*Connection, error)
	UpdateLastSynced(ctx context.Context, id string, t time.Time) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, conn *Connection) error {
	creds, err := json.Marshal(conn.Credentials)
	if err != nil {
		return fmt.Errorf("encode credentials failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.calendar_connections").
		Columns("provider_id", "ecosystem", "credentials", "shares_detail").
		Values(conn.ProviderID, conn.Ecosystem, creds, conn.SharesDetail).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create connection query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&conn.ID, &conn.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyConnected
		}
		return fmt.Errorf("create connection failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Connection, error) {
	const query = `
		SELECT id, provider_id, ecosystem, credentials, shares_detail, created_at, last_synced_at
		FROM public.calendar_connections
		WHERE id = $1
	`

	conn, err := scanConnection(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("get connection failed: %w", err)
	}
	return conn, nil
}

func (r *pgxRepository) ListByProvider(ctx context.Context, providerID string) ([]*Connection, error) {
	const query = `
		SELECT id, provider_id, ecosystem, credentials, shares_detail, created_at, last_synced_at
		FROM public.calendar_connections
		WHERE provider_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("list connections failed: %w", err)
	}
	defer rows.Close()

	var conns []*Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection failed: %w", err)
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

func (r *pgxRepository) UpdateLastSynced(ctx context.Context, id string, t time.Time) error {
	const query = `UPDATE public.calendar_connections SET last_synced_at = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("update last_synced_at failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.calendar_connections WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete connection failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

func scanConnection(row pgx.Row) (*Connection, error) {
	var conn Connection
	var creds []byte

	if err := row.Scan(
		&conn.ID, &conn.ProviderID, &conn.Ecosystem, &creds,
		&conn.SharesDetail, &conn.CreatedAt, &conn.LastSyncedAt,
	); err != nil {
		return nil, err
	}

	if len(creds) > 0 {
		if err := json.Unmarshal(creds, &conn.Credentials); err != nil {
			return nil, fmt.Errorf("decode credentials failed: %w", err)
		}
	}
	return &conn, nil
}
