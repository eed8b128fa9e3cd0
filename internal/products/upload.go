package products

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/artesania-app/artesania-backend/pkg/config"
	"github.com/artesania-app/artesania-backend/pkg/db"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/google/uuid"
)

// Uploader is the object storage surface image uploads depend on.
type Uploader interface {
	UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type UploadSettings struct {
	Uploader Uploader
	Prefix   string
	MaxBytes int64
}

// NewUploadSettings bundles the storage client with the configured limits.
func NewUploadSettings(uploader Uploader, cfg config.UploadsConfig) UploadSettings {
	prefix := cfg.FilePrefix
	if prefix == "" {
		prefix = "products"
	}
	return UploadSettings{
		Uploader: uploader,
		Prefix:   prefix,
		MaxBytes: cfg.MaxUploadBytes(),
	}
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UploadImage sniffs the payload type, stores it under a collision-free key,
// and appends the resulting public URL to the product.
func (s *service) UploadImage(ctx context.Context, userID, productID uuid.UUID, data []byte) (string, error) {
	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}
	if s.uploads.MaxBytes > 0 && int64(len(data)) > s.uploads.MaxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds the %d MB limit", s.uploads.MaxBytes>>20))
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported image type %s; allowed: png, jpeg, webp", contentType))
	}

	key := fmt.Sprintf("%s/product-%s/%s%s", s.uploads.Prefix, product.ID, uuid.New(), ext)

	url, err := s.uploads.Uploader.UploadObject(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	if err := s.repo.AppendImageURL(ctx, product.ID, url); err != nil {
		return "", db.Translate(err, "product")
	}
	return url, nil
}
