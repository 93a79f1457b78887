package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores one config document per provider.
type Repository interface {
	Get(ctx context.Context, providerID string) (Config, error)
	Put(ctx context.Context, providerID string, cfg Config) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Get(ctx context.Context, providerID string) (Config, error) {
	const query = `SELECT config FROM public.availability_configs WHERE provider_id = $1`

	var doc []byte
	if err := r.pool.QueryRow(ctx, query, providerID).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Config{}, ErrNotFound
		}
		return Config{}, fmt.Errorf("get availability config failed: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode availability config failed: %w", err)
	}

	return cfg, nil
}

func (r *pgxRepository) Put(ctx context.Context, providerID string, cfg Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode availability config failed: %w", err)
	}

	// Whole-document upsert: the previous config is replaced atomically.
	const query = `
		INSERT INTO public.availability_configs (provider_id, config, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (provider_id) DO UPDATE
		SET config = EXCLUDED.config, updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, providerID, doc); err != nil {
		return fmt.Errorf("put availability config failed: %w", err)
	}

	return nil
}
