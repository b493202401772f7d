package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ImageStorage is the object store product images are uploaded to.
type ImageStorage interface {
	// GenerateUploadURL presigns a PUT of exactly size bytes to key.
	GenerateUploadURL(ctx context.Context, key, contentType string, size int64, expiresIn time.Duration) (string, time.Time, error)
	// PublicURL is the address the stored object is served from.
	PublicURL(key string) string
	// KeyFromURL reverses PublicURL; ok is false for images hosted elsewhere.
	KeyFromURL(url string) (key string, ok bool)
	DeleteObject(ctx context.Context, key string) error
}

// ErrImageUploadDisabled is returned when no object storage is configured
var ErrImageUploadDisabled = shared.NewDomainError(shared.CodeUnavailable, "Image upload is not configured")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// SetImageStorage enables presigned image uploads. maxSize caps the declared
// upload size, 0 means no cap.
func (s *ProductService) SetImageStorage(storage ImageStorage, maxSize int64) {
	s.imageStorage = storage
	s.maxImageSize = maxSize
}

// RequestImageUpload reserves a storage key for a new image of the product
// and returns a presigned URL the client uploads it to. The image is
// attached afterwards with AddImage using the returned ImageURL.
func (s *ProductService) RequestImageUpload(ctx context.Context, productID uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.imageStorage == nil {
		return nil, ErrImageUploadDisabled
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	ext, ok := imageExtensions[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Unsupported image type %q", req.ContentType))
	}
	if s.maxImageSize > 0 && req.Size > s.maxImageSize {
		return nil, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Image cannot exceed %d bytes", s.maxImageSize))
	}

	key := path.Join("products", productID.String(), uuid.NewString()+ext)
	uploadURL, expiresAt, err := s.imageStorage.GenerateUploadURL(ctx, key, req.ContentType, req.Size, 0)
	if err != nil {
		return nil, err
	}
	return &ImageUploadResponse{
		UploadURL:  uploadURL,
		ImageURL:   s.imageStorage.PublicURL(key),
		StorageKey: key,
		ExpiresAt:  expiresAt,
	}, nil
}

// removeStoredImage deletes the object behind an image URL we host. Failures
// only leave an orphan object behind, so they are logged.
func (s *ProductService) removeStoredImage(ctx context.Context, url string) {
	if s.imageStorage == nil {
		return
	}
	key, ok := s.imageStorage.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.imageStorage.DeleteObject(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("Failed to delete stored image",
			zap.String("storage_key", key),
			zap.Error(err))
	}
}
