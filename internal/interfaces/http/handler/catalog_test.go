package handler_test

import (
	"net/http"
	"testing"

	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler(t *testing.T) {
	app := newTestApp(t)
	customer, _ := app.customer()

	t.Run("customers cannot create categories", func(t *testing.T) {
		w := app.do(http.MethodPost, "/catalog/categories", customer, map[string]any{"name": "Cuisine"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, shared.CodeForbidden, testutil.ErrorOf(t, w).Code)
	})

	w := app.do(http.MethodPost, "/catalog/categories", app.staff(), map[string]any{"name": "Arts de la table"})
	testutil.RequireStatus(t, w, http.StatusCreated)
	created := testutil.Data[catalogapp.CategoryResponse](t, w)
	assert.Equal(t, "arts-de-la-table", created.Slug)
	assert.True(t, created.IsActive)

	t.Run("duplicate slug", func(t *testing.T) {
		w := app.do(http.MethodPost, "/catalog/categories", app.staff(), map[string]any{"name": "Arts de la Table"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("public list with meta", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/categories?page=1&page_size=10", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		env := testutil.DecodeEnvelope[[]catalogapp.CategoryResponse](t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)
		assert.Equal(t, 10, env.Meta.PageSize)
		require.Len(t, env.Data, 1)
		assert.Equal(t, created.ID, env.Data[0].ID)
	})

	t.Run("get by id", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/categories/"+created.ID.String(), "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Arts de la table", testutil.Data[catalogapp.CategoryResponse](t, w).Name)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/categories/abc", "", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeValidation, testutil.ErrorOf(t, w).Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/catalog/categories/"+created.ID.String(), app.staff(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodGet, "/catalog/categories/"+created.ID.String(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler(t *testing.T) {
	app := newTestApp(t)
	mug := app.createProduct("Tasse bleue", "12.50", 0)
	plate := app.createProduct("Assiette plate", "8.00", 0)

	t.Run("creation opens an empty stock ledger", func(t *testing.T) {
		assert.Equal(t, 0, app.stock(mug.ID))
		assert.Equal(t, "tasse-bleue", mug.Slug)
		assert.True(t, mug.Price.Equal(dec("12.50")))
	})

	t.Run("lookup by slug", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/products/slug/tasse-bleue", "", nil)

		testutil.RequireStatus(t, w, http.StatusOK)
		assert.Equal(t, mug.ID, testutil.Data[catalogapp.ProductResponse](t, w).ID)
	})

	t.Run("unknown slug", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/products/slug/inconnu", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list filtered by category", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/products?category_id="+plate.CategoryID.String(), "", nil)

		testutil.RequireStatus(t, w, http.StatusOK)
		env := testutil.DecodeEnvelope[[]catalogapp.ProductResponse](t, w)
		require.Len(t, env.Data, 1)
		assert.Equal(t, plate.ID, env.Data[0].ID)
		assert.Equal(t, int64(1), env.Meta.Total)
	})

	t.Run("list rejects a malformed category", func(t *testing.T) {
		w := app.do(http.MethodGet, "/catalog/products?category_id=nope", "", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeValidation, testutil.ErrorOf(t, w).Code)
	})

	t.Run("negative price", func(t *testing.T) {
		w := app.do(http.MethodPost, "/catalog/products", app.staff(), map[string]any{
			"name":        "Bol",
			"price":       "-1",
			"category_id": mug.CategoryID,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeValidation, testutil.ErrorOf(t, w).Code)
	})

	t.Run("images", func(t *testing.T) {
		path := "/catalog/products/" + mug.ID.String() + "/images"
		w := app.do(http.MethodPost, path, app.staff(), map[string]any{
			"url":        "https://cdn.example.com/tasse.jpg",
			"alt_text":   "Tasse",
			"is_primary": true,
		})
		testutil.RequireStatus(t, w, http.StatusCreated)
		image := testutil.Data[catalogapp.ProductImageResponse](t, w)

		w = app.do(http.MethodGet, "/catalog/products/"+mug.ID.String(), "", nil)
		require.Len(t, testutil.Data[catalogapp.ProductResponse](t, w).Images, 1)

		w = app.do(http.MethodDelete, path+"/"+image.ID.String(), app.staff(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodGet, "/catalog/products/"+mug.ID.String(), "", nil)
		assert.Empty(t, testutil.Data[catalogapp.ProductResponse](t, w).Images)
	})

	t.Run("image upload needs object storage", func(t *testing.T) {
		w := app.do(http.MethodPost, "/catalog/products/"+mug.ID.String()+"/images/upload-url", app.staff(), map[string]any{
			"content_type": "image/png",
			"size":         1024,
		})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, shared.CodeUnavailable, testutil.ErrorOf(t, w).Code)
	})

	t.Run("attributes", func(t *testing.T) {
		path := "/catalog/products/" + mug.ID.String() + "/attributes"
		w := app.do(http.MethodPut, path, app.staff(), map[string]any{
			"attributes": []map[string]string{
				{"name": "Couleur", "value": "Bleu"},
				{"name": "Matière", "value": "Grès"},
			},
		})
		testutil.RequireStatus(t, w, http.StatusOK)
		assert.Len(t, testutil.Data[[]catalogapp.ProductAttributeResponse](t, w), 2)

		w = app.do(http.MethodPut, path, app.staff(), map[string]any{
			"attributes": []map[string]string{
				{"name": "Couleur", "value": "Bleu"},
				{"name": "couleur", "value": "Rouge"},
			},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/catalog/products/"+plate.ID.String(), app.staff(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodGet, "/catalog/products/"+plate.ID.String(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
