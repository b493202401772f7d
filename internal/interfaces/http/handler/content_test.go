package handler_test

import (
	"net/http"
	"testing"
	"time"

	blogapp "github.com/shopfront/backend/internal/application/blog"
	promotionapp "github.com/shopfront/backend/internal/application/promotion"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promotionBody(name, discountType, value string, active bool) map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"name":           name,
		"discount_type":  discountType,
		"discount_value": value,
		"valid_from":     now.Add(-time.Hour).Format(time.RFC3339),
		"valid_to":       now.Add(24 * time.Hour).Format(time.RFC3339),
		"active":         active,
	}
}

func TestPromotionHandler(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/promotions", app.staff(), promotionBody("Bienvenue", "fixed", "50", true))
	testutil.RequireStatus(t, w, http.StatusCreated)
	welcome := testutil.Data[promotionapp.PromotionResponse](t, w)
	assert.True(t, welcome.IsValid)

	w = app.do(http.MethodPost, "/promotions", app.staff(), promotionBody("Soldes", "percentage", "20", false))
	testutil.RequireStatus(t, w, http.StatusCreated)
	paused := testutil.Data[promotionapp.PromotionResponse](t, w)

	t.Run("fixed discount is capped by the amount", func(t *testing.T) {
		w := app.do(http.MethodPost, "/promotions/"+welcome.ID.String()+"/evaluate", "", map[string]any{"amount": "30"})

		testutil.RequireStatus(t, w, http.StatusOK)
		result := testutil.Data[promotionapp.EvaluateResponse](t, w)
		assert.True(t, result.Valid)
		assert.True(t, result.Discount.Equal(dec("30")), result.Discount.String())
	})

	t.Run("inactive promotions give nothing", func(t *testing.T) {
		w := app.do(http.MethodPost, "/promotions/"+paused.ID.String()+"/evaluate", "", map[string]any{"amount": "100"})

		testutil.RequireStatus(t, w, http.StatusOK)
		result := testutil.Data[promotionapp.EvaluateResponse](t, w)
		assert.False(t, result.Valid)
		assert.True(t, result.Discount.IsZero())
	})

	t.Run("public list only shows valid promotions", func(t *testing.T) {
		w := app.do(http.MethodGet, "/promotions", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		promos := testutil.Data[[]promotionapp.PromotionResponse](t, w)
		require.Len(t, promos, 1)
		assert.Equal(t, welcome.ID, promos[0].ID)
	})

	t.Run("inactive promotion is hidden from customers", func(t *testing.T) {
		token, _ := app.customer()
		w := app.do(http.MethodGet, "/promotions/"+paused.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = app.do(http.MethodGet, "/promotions/"+paused.ID.String(), app.staff(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("staff list everything", func(t *testing.T) {
		w := app.do(http.MethodGet, "/promotions?all=true", app.staff(), nil)
		assert.Len(t, testutil.Data[[]promotionapp.PromotionResponse](t, w), 2)
	})

	t.Run("percentage above 100", func(t *testing.T) {
		w := app.do(http.MethodPost, "/promotions", app.staff(), promotionBody("Trop", "percentage", "150", true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeValidation, testutil.ErrorOf(t, w).Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/promotions/"+paused.ID.String(), app.staff(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodGet, "/promotions/"+paused.ID.String(), app.staff(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBlogHandler(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/blog/posts", app.staff(), map[string]any{
		"title":   "Nouvelle collection",
		"content": "Les pièces de la saison.",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)
	post := testutil.Data[blogapp.PostResponse](t, w)
	assert.Equal(t, "nouvelle-collection", post.Slug)
	assert.False(t, post.Published)

	t.Run("drafts are hidden from the public", func(t *testing.T) {
		w := app.do(http.MethodGet, "/blog/posts/nouvelle-collection", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = app.do(http.MethodGet, "/blog/posts", "", nil)
		assert.Empty(t, testutil.Data[[]blogapp.PostListItemResponse](t, w))
	})

	t.Run("drafts are visible to staff", func(t *testing.T) {
		w := app.do(http.MethodGet, "/blog/posts/nouvelle-collection", app.staff(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("publish", func(t *testing.T) {
		w := app.do(http.MethodPost, "/blog/posts/"+post.ID.String()+"/publish", app.staff(), nil)
		testutil.RequireStatus(t, w, http.StatusOK)
		published := testutil.Data[blogapp.PostResponse](t, w)
		assert.True(t, published.Published)
		assert.NotNil(t, published.PublishedAt)

		w = app.do(http.MethodGet, "/blog/posts", "", nil)
		posts := testutil.Data[[]blogapp.PostListItemResponse](t, w)
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
	})

	t.Run("customers cannot write", func(t *testing.T) {
		token, _ := app.customer()
		w := app.do(http.MethodPost, "/blog/posts", token, map[string]any{"title": "Spam", "content": "..."})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
