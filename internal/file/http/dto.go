package http

import (
	"time"

	"github.com/mirateia/stagetime-backend/internal/file"
)

type ImageResponse struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"provider_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Caption      string    `json:"caption,omitempty"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewImageResponse(img *file.Image) ImageResponse {
	resp := ImageResponse{
		ID:          img.ID,
		ProviderID:  img.ProviderID,
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Size:        img.Size,
		Caption:     img.Caption,
		URL:         file.ImageURL(img.ID),
		CreatedAt:   img.CreatedAt,
	}
	if img.ThumbnailPath != nil {
		resp.ThumbnailURL = file.ThumbnailURL(img.ID)
	}
	return resp
}
