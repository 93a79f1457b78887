package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mirateia/stagetime-backend/internal/pkg/storage"
)

const (
	maxImageBytes   = 10 << 20 // 10 MiB
	thumbnailWidth  = 400
	thumbnailHeight = 400
)

type Service interface {
	// Upload stores a portfolio image and its thumbnail for the provider.
	Upload(ctx context.Context, header *multipart.FileHeader, providerID, caption string) (*Image, error)

	ListByProvider(ctx context.Context, providerID string) ([]*Image, error)

	// Delete removes the record and best-effort cleans the blobs. Only the
	// owning provider may delete.
	Delete(ctx context.Context, id, providerID string) error

	Download(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{repo: repo, storage: store}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, providerID, caption string) (*Image, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if header.Size > maxImageBytes {
		return nil, ErrTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffered once so the original save and the thumbnail pass read the
	// same bytes.
	raw, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > maxImageBytes {
		return nil, ErrTooLarge
	}

	id := uuid.New().String()
	shard := id[:2]
	ext := strings.ToLower(filepath.Ext(header.Filename))
	originalPath := fmt.Sprintf("portfolio/%s/%s%s", shard, id, ext)

	if err := s.storage.Save(ctx, originalPath, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	var thumbnailPath *string
	thumb, err := storage.Thumbnail(bytes.NewReader(raw), thumbnailWidth, thumbnailHeight)
	if err != nil {
		// A broken thumbnail must not reject the upload.
		log.Printf("portfolio upload: thumbnail generation failed for %s: %v", id, err)
	} else {
		tPath := fmt.Sprintf("portfolio/%s/%s_thumb.jpg", shard, id)
		if err := s.storage.Save(ctx, tPath, thumb); err != nil {
			log.Printf("portfolio upload: thumbnail save failed for %s: %v", id, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	img := &Image{
		ID:            id,
		ProviderID:    providerID,
		Filename:      header.Filename,
		StoragePath:   originalPath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(raw)),
		Caption:       caption,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, img); err != nil {
		_ = s.storage.Delete(ctx, originalPath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return img, nil
}

func (s *service) ListByProvider(ctx context.Context, providerID string) ([]*Image, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *service) Delete(ctx context.Context, id, providerID string) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if img.ProviderID != providerID {
		return ErrPermissionDenied
	}

	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		log.Printf("portfolio delete: blob cleanup failed for %s: %v", id, err)
	}
	if img.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *img.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, img.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve image from storage: %w", err)
	}
	return stream, img, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if img.ThumbnailPath == nil {
		return nil, nil, ErrNotFound
	}

	stream, err := s.storage.Get(ctx, *img.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve thumbnail from storage: %w", err)
	}
	return stream, img, nil
}
