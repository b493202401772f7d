package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		f := Filter{}.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultPageSize, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
		assert.Equal(t, "desc", f.OrderDir)
		assert.NotNil(t, f.Filters)
	})

	t.Run("caps page size", func(t *testing.T) {
		f := Filter{Page: 3, PageSize: 500, OrderDir: "asc"}.Normalize()
		assert.Equal(t, MaxPageSize, f.PageSize)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, 200, f.Offset())
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(41), p.Total)

	p = NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}
