package admin

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"storefront/pkg/httperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type UploadImageHandler struct {
	store ImageStore
	now   func() time.Time
}

// NewUploadImageHandler accepts a nil store; uploads then answer 503.
func NewUploadImageHandler(store ImageStore) *UploadImageHandler {
	return &UploadImageHandler{
		store: store,
		now:   time.Now,
	}
}

// UploadImageRequest is filled from the multipart "image" field.
type UploadImageRequest struct {
	Filename string
	Size     int64
	Data     []byte
}

type UploadImageResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

func (h UploadImageHandler) Handle(ctx context.Context, req *UploadImageRequest) (*UploadImageResponse, error) {
	if h.store == nil {
		return nil, httperror.ServiceUnavailable(
			"admin.upload.storage_unavailable",
			"Image storage is not configured",
			nil,
		)
	}

	if len(req.Data) == 0 {
		return nil, httperror.BadRequest(
			"admin.upload.missing_file",
			"An image file is required",
			map[string]string{"image": "required"},
		)
	}

	if req.Size > MaxImageSize || len(req.Data) > MaxImageSize {
		return nil, httperror.BadRequest(
			"admin.upload.too_large",
			"Image exceeds the 5MB limit",
			map[string]string{"image": "max"},
		)
	}

	// Sniffed rather than trusted from the part header.
	contentType := http.DetectContentType(req.Data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, httperror.BadRequest(
			"admin.upload.unsupported_type",
			"Only PNG, JPEG and WEBP images are accepted",
			map[string]string{"image": "mimetype"},
		)
	}

	key := path.Join("products", h.now().UTC().Format("2006/01"), uuid.NewString()+ext)

	if err := h.store.Upload(key, req.Data); err != nil {
		zap.L().Error("Failed to store product image",
			zap.String("key", key),
			zap.String("filename", strings.TrimSpace(req.Filename)),
			zap.Error(err),
		)
		return nil, httperror.InternalServerError(
			"admin.upload.failed",
			"Failed to store image",
			nil,
		)
	}

	return &UploadImageResponse{
		Success: true,
		URL:     h.store.URL(key),
	}, nil
}
