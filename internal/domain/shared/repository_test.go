package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginated(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		page := NewPaginated([]string{"a", "b"}, 41, 1, 20)

		assert.Equal(t, int64(41), page.Total)
		assert.Equal(t, 20, page.PageSize)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("exact multiple needs no extra page", func(t *testing.T) {
		page := NewPaginated([]string{"a"}, 40, 2, 20)

		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("zero page size falls back to the default", func(t *testing.T) {
		page := NewPaginated([]string{"a"}, 41, 1, 0)

		assert.Equal(t, DefaultPageSize, page.PageSize)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("negative page size falls back to the default", func(t *testing.T) {
		page := NewPaginated([]string{}, 0, 1, -5)

		assert.Equal(t, DefaultPageSize, page.PageSize)
		assert.Equal(t, 0, page.TotalPages)
	})
}
