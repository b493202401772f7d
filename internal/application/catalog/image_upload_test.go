package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cdn = "https://cdn.shop.test/"

type fakeImageStorage struct {
	presigned []string
	deleted   []string
	deleteErr error
}

func (f *fakeImageStorage) GenerateUploadURL(_ context.Context, key, _ string, _ int64, _ time.Duration) (string, time.Time, error) {
	f.presigned = append(f.presigned, key)
	return "https://s3.shop.test/media/" + key + "?X-Amz-Signature=abc", time.Now().Add(15 * time.Minute), nil
}

func (f *fakeImageStorage) PublicURL(key string) string {
	return cdn + key
}

func (f *fakeImageStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, cdn) {
		return "", false
	}
	return strings.TrimPrefix(url, cdn), true
}

func (f *fakeImageStorage) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

func TestProductService_RequestImageUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without storage", func(t *testing.T) {
		f := newProductFixture(t)

		_, err := f.svc.RequestImageUpload(ctx, uuid.New(), ImageUploadRequest{ContentType: "image/png", Size: 10})

		assert.ErrorIs(t, err, ErrImageUploadDisabled)
	})

	t.Run("presigns a key under the product", func(t *testing.T) {
		f := newProductFixture(t)
		storage := &fakeImageStorage{}
		f.svc.SetImageStorage(storage, 1<<20)
		product, err := catalog.NewProduct("Bol", "", "", decimal.NewFromInt(12), f.category.ID)
		require.NoError(t, err)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)

		resp, err := f.svc.RequestImageUpload(ctx, product.ID, ImageUploadRequest{ContentType: "image/webp", Size: 2048})

		require.NoError(t, err)
		require.Len(t, storage.presigned, 1)
		assert.Equal(t, storage.presigned[0], resp.StorageKey)
		assert.True(t, strings.HasPrefix(resp.StorageKey, "products/"+product.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(resp.StorageKey, ".webp"))
		assert.Equal(t, cdn+resp.StorageKey, resp.ImageURL)
		assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	})

	t.Run("size cap", func(t *testing.T) {
		f := newProductFixture(t)
		f.svc.SetImageStorage(&fakeImageStorage{}, 1024)
		product, err := catalog.NewProduct("Bol", "", "", decimal.NewFromInt(12), f.category.ID)
		require.NoError(t, err)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err = f.svc.RequestImageUpload(ctx, product.ID, ImageUploadRequest{ContentType: "image/png", Size: 4096})

		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeValidation, de.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newProductFixture(t)
		f.svc.SetImageStorage(&fakeImageStorage{}, 0)
		id := uuid.New()
		f.products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.RequestImageUpload(ctx, id, ImageUploadRequest{ContentType: "image/png", Size: 10})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_DeleteImage_RemovesStoredObject(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	hosted, err := catalog.NewProductImage(productID, cdn+"products/"+productID.String()+"/a.png", "", true, 0)
	require.NoError(t, err)
	external, err := catalog.NewProductImage(productID, "https://example.com/b.png", "", false, 1)
	require.NoError(t, err)

	t.Run("hosted image", func(t *testing.T) {
		f := newProductFixture(t)
		storage := &fakeImageStorage{}
		f.svc.SetImageStorage(storage, 0)
		f.media.On("FindImages", ctx, productID).Return([]catalog.ProductImage{*hosted, *external}, nil)
		f.media.On("DeleteImage", ctx, productID, hosted.ID).Return(nil)

		require.NoError(t, f.svc.DeleteImage(ctx, productID, hosted.ID))
		assert.Equal(t, []string{"products/" + productID.String() + "/a.png"}, storage.deleted)
	})

	t.Run("external image and storage failure are not errors", func(t *testing.T) {
		f := newProductFixture(t)
		storage := &fakeImageStorage{deleteErr: errors.New("s3 down")}
		f.svc.SetImageStorage(storage, 0)
		f.media.On("FindImages", ctx, productID).Return([]catalog.ProductImage{*hosted, *external}, nil)
		f.media.On("DeleteImage", ctx, productID, external.ID).Return(nil)
		f.media.On("DeleteImage", ctx, productID, hosted.ID).Return(nil)

		require.NoError(t, f.svc.DeleteImage(ctx, productID, external.ID))
		assert.Empty(t, storage.deleted)

		require.NoError(t, f.svc.DeleteImage(ctx, productID, hosted.ID))
		assert.Len(t, storage.deleted, 1)
	})

	t.Run("missing image leaves storage alone", func(t *testing.T) {
		f := newProductFixture(t)
		storage := &fakeImageStorage{}
		f.svc.SetImageStorage(storage, 0)
		missing := uuid.New()
		f.media.On("FindImages", ctx, productID).Return([]catalog.ProductImage{*hosted}, nil)
		f.media.On("DeleteImage", ctx, productID, missing).Return(shared.ErrNotFound)

		assert.ErrorIs(t, f.svc.DeleteImage(ctx, productID, missing), shared.ErrNotFound)
		assert.Empty(t, storage.deleted)
	})
}
