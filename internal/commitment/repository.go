package commitment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the commitment ledger: every time claim against a provider.
type Repository interface {
	Create(ctx context.Context, cm *Commitment) error
	GetByID(ctx context.Context, id string) (*Commitment, error)
	List(ctx context.Context, filter Filter) ([]*Commitment, int, error)
	Update(ctx context.Context, cm *Commitment) error
	Delete(ctx context.Context, id string) error

	// ListInRange returns commitments of the given kinds and statuses that
	// overlap [start, end) using the strict half-open test: touching
	// intervals do not overlap. excludeID skips one commitment, which lets a
	// reschedule revalidate against everything but itself.
	ListInRange(ctx context.Context, providerID string, kinds []Kind, statuses []Status, start, end time.Time, excludeID string) ([]*Commitment, error)

	// ReplaceExternal swaps the provider's imported events for one source in
	// a single transaction.
	ReplaceExternal(ctx context.Context, providerID, source string, events []*Commitment) error
}

const commitmentColumns = `
	id, provider_id, client_id, start_time, end_time, kind, status,
	source, title, external_event_id, created_at, updated_at
`

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, cm *Commitment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.commitments").
		Columns("provider_id", "client_id", "start_time", "end_time", "kind", "status", "source", "title", "external_event_id").
		Values(cm.ProviderID, cm.ClientID, cm.StartTime, cm.EndTime, cm.Kind, cm.Status, cm.Source, cm.Title, cm.ExternalEventID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create commitment query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&cm.ID, &cm.CreatedAt, &cm.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Commitment, error) {
	query := "SELECT " + commitmentColumns + " FROM public.commitments WHERE id = $1"

	cm, err := scanCommitment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get commitment failed: %w", err)
	}
	return cm, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Commitment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "provider_id", "client_id", "start_time", "end_time", "kind", "status",
		"source", "title", "external_event_id", "created_at", "updated_at",
		"count(*) OVER() AS total_count",
	).From("public.commitments")

	if filter.ProviderID != "" {
		query = query.Where(squirrel.Eq{"provider_id": filter.ProviderID})
	}
	if filter.ClientID != "" {
		query = query.Where(squirrel.Eq{"client_id": filter.ClientID})
	}
	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.StartTime != nil {
		query = query.Where(squirrel.GtOrEq{"end_time": filter.StartTime})
	}
	if filter.EndTime != nil {
		query = query.Where(squirrel.LtOrEq{"start_time": filter.EndTime})
	}

	// Sorting
	orderBy := "start_time"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list commitments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list commitments failed: %w", err)
	}
	defer rows.Close()

	var commitments []*Commitment
	var total int

	for rows.Next() {
		var cm Commitment
		if err := rows.Scan(
			&cm.ID, &cm.ProviderID, &cm.ClientID, &cm.StartTime, &cm.EndTime, &cm.Kind, &cm.Status,
			&cm.Source, &cm.Title, &cm.ExternalEventID, &cm.CreatedAt, &cm.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan commitment failed: %w", err)
		}
		commitments = append(commitments, &cm)
	}

	return commitments, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, cm *Commitment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.commitments").
		Set("start_time", cm.StartTime).
		Set("end_time", cm.EndTime).
		Set("status", cm.Status).
		Set("title", cm.Title).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": cm.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update commitment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update commitment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.commitments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete commitment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete commitment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListInRange(ctx context.Context, providerID string, kinds []Kind, statuses []Status, start, end time.Time, excludeID string) ([]*Commitment, error) {
	// Overlap test is strict half-open: start1 < end2 AND end1 > start2.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "provider_id", "client_id", "start_time", "end_time", "kind", "status",
		"source", "title", "external_event_id", "created_at", "updated_at",
	).
		From("public.commitments").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if len(kinds) > 0 {
		query = query.Where(squirrel.Eq{"kind": kinds})
	}
	if len(statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": statuses})
	}
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build range query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("range query failed: %w", err)
	}
	defer rows.Close()

	var commitments []*Commitment
	for rows.Next() {
		var cm Commitment
		if err := rows.Scan(
			&cm.ID, &cm.ProviderID, &cm.ClientID, &cm.StartTime, &cm.EndTime, &cm.Kind, &cm.Status,
			&cm.Source, &cm.Title, &cm.ExternalEventID, &cm.CreatedAt, &cm.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan commitment failed: %w", err)
		}
		commitments = append(commitments, &cm)
	}

	return commitments, nil
}

func (r *pgxRepository) ReplaceExternal(ctx context.Context, providerID, source string, events []*Commitment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace external failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const del = `DELETE FROM public.commitments WHERE provider_id = $1 AND kind = 'external' AND source = $2`
	if _, err := tx.Exec(ctx, del, providerID, source); err != nil {
		return fmt.Errorf("clear imported events failed: %w", err)
	}

	const ins = `
		INSERT INTO public.commitments
			(provider_id, client_id, start_time, end_time, kind, status, source, title, external_event_id)
		VALUES ($1, NULL, $2, $3, 'external', 'confirmed', $4, $5, $6)
	`
	for _, ev := range events {
		if _, err := tx.Exec(ctx, ins, providerID, ev.StartTime, ev.EndTime, source, ev.Title, ev.ExternalEventID); err != nil {
			return fmt.Errorf("insert imported event failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func scanCommitment(row pgx.Row) (*Commitment, error) {
	var cm Commitment
	if err := row.Scan(
		&cm.ID, &cm.ProviderID, &cm.ClientID, &cm.StartTime, &cm.EndTime, &cm.Kind, &cm.Status,
		&cm.Source, &cm.Title, &cm.ExternalEventID, &cm.CreatedAt, &cm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cm, nil
}
