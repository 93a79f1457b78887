package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const imageColumns = "id, provider_id, filename, storage_path, thumbnail_path, content_type, size, caption, created_at"

type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	ListByProvider(ctx context.Context, providerID string) ([]*Image, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, img *Image) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("portfolio_images").
		Columns("id", "provider_id", "filename", "storage_path", "thumbnail_path", "content_type", "size", "caption", "created_at").
		Values(img.ID, img.ProviderID, img.Filename, img.StoragePath, img.ThumbnailPath, img.ContentType, img.Size, img.Caption, img.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Image, error) {
	query := `SELECT ` + imageColumns + ` FROM portfolio_images WHERE id = $1`

	img, err := scanImage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return img, nil
}

func (r *repository) ListByProvider(ctx context.Context, providerID string) ([]*Image, error) {
	query := `SELECT ` + imageColumns + ` FROM portfolio_images WHERE provider_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []*Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM portfolio_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanImage(row pgx.Row) (*Image, error) {
	img := &Image{}
	err := row.Scan(
		&img.ID,
		&img.ProviderID,
		&img.Filename,
		&img.StoragePath,
		&img.ThumbnailPath,
		&img.ContentType,
		&img.Size,
		&img.Caption,
		&img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return img, nil
}
