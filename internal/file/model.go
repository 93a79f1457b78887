package file

import (
	"net/http"
	"time"

	"github.com/mirateia/stagetime-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "image not found")
	ErrNotAnImage       = apperror.New(http.StatusBadRequest, "only image uploads are accepted")
	ErrTooLarge         = apperror.New(http.StatusRequestEntityTooLarge, "image exceeds the size limit")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Image is one provider portfolio entry: the original upload plus a derived
// thumbnail. Storage paths never leave the server.
type Image struct {
	ID            string    `json:"id"`
	ProviderID    string    `json:"provider_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"`
	ThumbnailPath *string   `json:"-"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	Caption       string    `json:"caption,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ImageURL(id string) string {
	return "/v1/portfolio/" + id + "/image"
}

func ThumbnailURL(id string) string {
	return "/v1/portfolio/" + id + "/thumbnail"
}
