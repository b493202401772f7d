package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Café crème":          "cafe-creme",
		"  Hello,  World!  ":  "hello-world",
		"Écouteurs Bluetooth": "ecouteurs-bluetooth",
		"---":                 "",
		"T-shirt 100% coton":  "t-shirt-100-coton",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}

	long := Slugify(strings.Repeat("ab ", 150))
	assert.LessOrEqual(t, len(long), maxSlugLength)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestValidateSlug(t *testing.T) {
	require.NoError(t, ValidateSlug("summer-sale_2024"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("Upper-Case"))
	assert.Error(t, ValidateSlug("with space"))
}

func TestNewCategory(t *testing.T) {
	t.Run("derives slug from name", func(t *testing.T) {
		c, err := NewCategory("Électronique", "", "gadgets", nil)
		require.NoError(t, err)
		assert.Equal(t, "electronique", c.Slug)
		assert.True(t, c.IsActive)
		assert.Nil(t, c.ParentID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCategory("", "x", "", nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("cannot be its own parent", func(t *testing.T) {
		c, err := NewCategory("Books", "books", "", nil)
		require.NoError(t, err)
		id := c.ID
		assert.Error(t, c.SetParent(&id))
	})
}

func TestNewProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		p, err := NewProduct("Tasse à café", "", "porcelaine", decimal.RequireFromString("12.499"), categoryID)
		require.NoError(t, err)
		assert.Equal(t, "tasse-a-cafe", p.Slug)
		assert.Equal(t, "12.5", p.Price.String())
		assert.True(t, p.InStock)
		assert.False(t, p.Featured)
		assert.Equal(t, 1, p.GetVersion())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Mug", "mug", "", decimal.NewFromInt(-1), categoryID)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("requires category", func(t *testing.T) {
		_, err := NewProduct("Mug", "mug", "", decimal.NewFromInt(1), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestProduct_SetPrices(t *testing.T) {
	p, err := NewProduct("Mug", "mug", "", decimal.NewFromInt(10), uuid.New())
	require.NoError(t, err)
	p.ClearDomainEvents()

	compare := decimal.NewFromInt(15)
	require.NoError(t, p.SetPrices(decimal.NewFromInt(8), &compare))
	assert.True(t, p.OnSale())
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductPriceChanged, p.GetDomainEvents()[0].EventType())

	negative := decimal.NewFromInt(-3)
	assert.Error(t, p.SetPrices(decimal.NewFromInt(8), &negative))

	p.ClearDomainEvents()
	require.NoError(t, p.SetPrices(decimal.NewFromInt(8), nil))
	assert.Empty(t, p.GetDomainEvents(), "unchanged price publishes nothing")
	assert.False(t, p.OnSale())
}

func TestProduct_EnsureOrderable(t *testing.T) {
	p, err := NewProduct("Mug", "mug", "", decimal.NewFromInt(10), uuid.New())
	require.NoError(t, err)
	require.NoError(t, p.EnsureOrderable())

	p.SetInStock(false)
	err = p.EnsureOrderable()
	assert.True(t, errors.Is(err, shared.ErrOutOfStock))
}

func TestProductMedia(t *testing.T) {
	productID := uuid.New()

	img, err := NewProductImage(productID, "https://cdn.example.com/mug.jpg", "mug", true, 0)
	require.NoError(t, err)
	assert.Equal(t, productID, img.ProductID)

	_, err = NewProductImage(productID, "", "", false, 0)
	assert.Error(t, err)

	attr, err := NewProductAttribute("Couleur")
	require.NoError(t, err)
	val, err := NewProductAttributeValue(productID, attr, "Bleu")
	require.NoError(t, err)
	assert.Equal(t, attr.ID, val.AttributeID)

	_, err = NewProductAttributeValue(productID, nil, "Bleu")
	assert.Error(t, err)
}
