package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirateia/stagetime-backend/internal/auth"
	"github.com/mirateia/stagetime-backend/internal/file"
	"github.com/mirateia/stagetime-backend/internal/pkg/request"
	"github.com/mirateia/stagetime-backend/internal/pkg/response"
)

type Handler struct {
	service file.Service
}

func NewHandler(service file.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	caption := c.PostForm("caption")

	img, err := h.service.Upload(c.Request.Context(), header, auth.GetUserID(c), caption)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewImageResponse(img))
}

func (h *Handler) ListByProvider(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	images, err := h.service.ListByProvider(c.Request.Context(), params.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list portfolio"})
		return
	}

	items := make([]ImageResponse, len(images))
	for i, img := range images {
		items[i] = NewImageResponse(img)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Download(c *gin.Context) {
	h.serve(c, false)
}

func (h *Handler) DownloadThumbnail(c *gin.Context) {
	h.serve(c, true)
}

func (h *Handler) serve(c *gin.Context, thumbnail bool) {
	id := c.Param("id")

	var (
		rc  io.ReadCloser
		img *file.Image
		err error
	)
	if thumbnail {
		rc, img, err = h.service.DownloadThumbnail(c.Request.Context(), id)
	} else {
		rc, img, err = h.service.Download(c.Request.Context(), id)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	contentType := img.ContentType
	if thumbnail {
		contentType = "image/jpeg"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
