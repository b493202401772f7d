package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	productID := uuid.New()

	t.Run("creates a new line", func(t *testing.T) {
		item, err := c.AddItem(productID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, c.ID, item.CartID)
		assert.Len(t, c.Items, 1)
	})

	t.Run("accumulates onto existing line", func(t *testing.T) {
		item, err := c.AddItem(productID, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.QuantityOf(productID))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := c.AddItem(productID, 0)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestCart_Total(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	mug, tee := uuid.New(), uuid.New()
	_, err = c.AddItem(mug, 3)
	require.NoError(t, err)
	_, err = c.AddItem(tee, 1)
	require.NoError(t, err)

	prices := map[uuid.UUID]decimal.Decimal{
		mug: decimal.RequireFromString("20.00"),
		tee: decimal.RequireFromString("9.99"),
	}
	assert.True(t, c.Total(prices).Equal(decimal.RequireFromString("69.99")))

	// price changes are reflected on the next read
	prices[mug] = decimal.RequireFromString("10.00")
	assert.True(t, c.Total(prices).Equal(decimal.RequireFromString("39.99")))
}

func TestCart_TotalExample(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	p := uuid.New()
	_, err = c.AddItem(p, 3)
	require.NoError(t, err)

	total := c.Total(map[uuid.UUID]decimal.Decimal{p: decimal.RequireFromString("20.00")})
	assert.Equal(t, "60", total.String())
}

func TestCartItem_SetQuantity(t *testing.T) {
	item := &CartItem{Quantity: 1}
	require.NoError(t, item.SetQuantity(4))
	assert.Equal(t, 4, item.Quantity)
	assert.Error(t, item.SetQuantity(0))
	assert.Equal(t, 4, item.Quantity)
}

func TestNewCart_RequiresUser(t *testing.T) {
	_, err := NewCart(uuid.Nil)
	assert.Error(t, err)
}
