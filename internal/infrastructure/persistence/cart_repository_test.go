package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormCartRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCartRepository(newTestDB(t))
	userID := uuid.New()

	_, err := repo.FindByUserID(ctx, userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	first, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.Items)
}

func TestGormCartRepository_Items(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCartRepository(newTestDB(t))
	owner, stranger := uuid.New(), uuid.New()

	c, err := repo.GetOrCreate(ctx, owner)
	require.NoError(t, err)
	_, err = repo.GetOrCreate(ctx, stranger)
	require.NoError(t, err)

	productA, productB := uuid.New(), uuid.New()
	item, err := c.AddItem(productA, 2)
	require.NoError(t, err)
	require.NoError(t, repo.SaveItem(ctx, item))
	other, err := c.AddItem(productB, 1)
	require.NoError(t, err)
	require.NoError(t, repo.SaveItem(ctx, other))

	t.Run("accumulated quantity is persisted", func(t *testing.T) {
		item, err := c.AddItem(productA, 3)
		require.NoError(t, err)
		require.NoError(t, repo.SaveItem(ctx, item))

		loaded, err := repo.FindByUserID(ctx, owner)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 2)
		assert.Equal(t, 5, loaded.QuantityOf(productA))
	})

	t.Run("items are scoped to their owner", func(t *testing.T) {
		found, err := repo.FindItemForUser(ctx, owner, item.ID)
		require.NoError(t, err)
		assert.Equal(t, productA, found.ProductID)

		_, err = repo.FindItemForUser(ctx, stranger, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.DeleteItemForUser(ctx, stranger, item.ID), shared.ErrNotFound)
	})

	t.Run("owner deletes an item", func(t *testing.T) {
		require.NoError(t, repo.DeleteItemForUser(ctx, owner, other.ID))
		assert.ErrorIs(t, repo.DeleteItemForUser(ctx, owner, other.ID), shared.ErrNotFound)
	})

	t.Run("clear keeps the cart row", func(t *testing.T) {
		removed, err := repo.ClearItems(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		loaded, err := repo.FindByUserID(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, c.ID, loaded.ID)
		assert.True(t, loaded.IsEmpty())
	})
}

func TestGormCartRepository_AccumulateItem(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCartRepository(newTestDB(t))
	c, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)
	productID := uuid.New()

	line, err := cart.NewItem(c.ID, productID, 2)
	require.NoError(t, err)
	require.NoError(t, repo.AccumulateItem(ctx, line, 10))
	assert.Equal(t, 2, line.Quantity)

	t.Run("adds from stale reads both land", func(t *testing.T) {
		first, err := repo.FindByUserID(ctx, c.UserID)
		require.NoError(t, err)
		second, err := repo.FindByUserID(ctx, c.UserID)
		require.NoError(t, err)
		require.Equal(t, 2, first.QuantityOf(productID))
		require.Equal(t, 2, second.QuantityOf(productID))

		for _, snapshot := range []*cart.Cart{first, second} {
			add, err := cart.NewItem(snapshot.ID, productID, 1)
			require.NoError(t, err)
			require.NoError(t, repo.AccumulateItem(ctx, add, 10))
		}

		loaded, err := repo.FindByUserID(ctx, c.UserID)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 4, loaded.QuantityOf(productID))
		assert.Equal(t, line.ID, loaded.Items[0].ID)
	})

	t.Run("merged quantity above the limit is refused", func(t *testing.T) {
		add, err := cart.NewItem(c.ID, productID, 3)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.AccumulateItem(ctx, add, 6), cart.ErrLineLimit)

		loaded, err := repo.FindByUserID(ctx, c.UserID)
		require.NoError(t, err)
		assert.Equal(t, 4, loaded.QuantityOf(productID))
	})
}

func TestGormCartRepository_AccumulateItem_LastUnit(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCartRepository(newTestDB(t))
	c, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)
	productID := uuid.New()

	// Two sessions both saw an empty line and one unit in stock.
	var refused int
	for i := 0; i < 2; i++ {
		add, err := cart.NewItem(c.ID, productID, 1)
		require.NoError(t, err)
		if err := repo.AccumulateItem(ctx, add, 1); err != nil {
			require.ErrorIs(t, err, cart.ErrLineLimit)
			refused++
		}
	}

	assert.Equal(t, 1, refused)
	loaded, err := repo.FindByUserID(ctx, c.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.QuantityOf(productID))
}

func TestGormCartRepository_LockAndRemoveLines(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCartRepository(db)
	userID := uuid.New()
	c, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	productA, productB := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{productA, productB} {
		line, err := cart.NewItem(c.ID, id, 2)
		require.NoError(t, err)
		require.NoError(t, repo.AccumulateItem(ctx, line, 10))
	}

	var snapshot *cart.Cart
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		snapshot, err = NewGormCartRepository(tx).LockForUpdate(ctx, userID)
		return err
	}))
	require.Len(t, snapshot.Items, 2)

	_, err = NewGormCartRepository(db).LockForUpdate(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	t.Run("a line changed since the snapshot stays", func(t *testing.T) {
		bump, err := cart.NewItem(c.ID, productB, 1)
		require.NoError(t, err)
		require.NoError(t, repo.AccumulateItem(ctx, bump, 10))

		removed, err := repo.RemoveLines(ctx, c.ID, snapshot.Items)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		loaded, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 3, loaded.QuantityOf(productB))
	})

	t.Run("nothing to remove", func(t *testing.T) {
		removed, err := repo.RemoveLines(ctx, c.ID, nil)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}
