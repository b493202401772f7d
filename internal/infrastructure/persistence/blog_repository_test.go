package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/blog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPostRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPostRepository(newTestDB(t))
	author := uuid.New()

	published, err := blog.NewPost(author, "Brewing Green Tea", "", "Use water below boiling.", "Temperature matters")
	require.NoError(t, err)
	published.Publish(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, published))

	draft, err := blog.NewPost(author, "Winter Blends", "", "Coming soon.", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, draft))

	t.Run("drafts are hidden from the public", func(t *testing.T) {
		_, err := repo.FindBySlug(ctx, "winter-blends", true)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindBySlug(ctx, "winter-blends", false)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, found.ID)

		public, err := repo.Count(ctx, shared.Filter{}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), public)
		all, err := repo.Count(ctx, shared.Filter{}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), all)
	})

	t.Run("search covers title and excerpt", func(t *testing.T) {
		posts, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "temperature"}, true)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, published.ID, posts[0].ID)
	})

	t.Run("slug uniqueness", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "brewing-green-tea", &published.ID)
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = repo.ExistsBySlug(ctx, "brewing-green-tea", &draft.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, draft.ID))
		assert.ErrorIs(t, repo.Delete(ctx, draft.ID), shared.ErrNotFound)
	})
}
