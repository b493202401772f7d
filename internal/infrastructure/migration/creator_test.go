package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add carts table", "add_carts_table"},
		{"Add-Carts-Table", "add_carts_table"},
		{"ADD__CARTS__TABLE", "add_carts_table"},
		{"index orders 2", "index_orders_2"},
		{"   spaces   ", "spaces"},
		{"drop!@#legacy", "droplegacy"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("numbers the first migration 1", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "create wishlist", "Saved products per user")
		require.NoError(t, err)
		assert.Equal(t, uint(1), mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_create_wishlist.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_create_wishlist.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "create wishlist")
		assert.Contains(t, string(up), "Saved products per user")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Revert create wishlist")
	})

	t.Run("continues after the highest version", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000001_a.up.sql", "000007_b.up.sql", "000003_c.up.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		mf, err := CreateMigration(dir, "next", "")
		require.NoError(t, err)
		assert.Equal(t, uint(8), mf.Version)
	})

	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")
		_, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("orders by version and ignores down files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000010_orders.up.sql", "000010_orders.down.sql",
			"000002_users.up.sql", "000002_users.down.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000005_dir.up.sql"), 0o755))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_users", "000010_orders"}, migrations)
	})
}
