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
		{"create rfq tables", "create_rfq_tables"},
		{"Create-RFQ-Tables", "create_rfq_tables"},
		{"CREATE_RFQ_TABLES", "create_rfq_tables"},
		{"add__coffee__type", "add_coffee_type"},
		{"Add Index 2", "add_index_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("first migration starts the sequence", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "create rfq tables")
		require.NoError(t, err)

		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_create_rfq_tables.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_create_rfq_tables.down.sql"), mf.DownPath)
		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
	})

	t.Run("continues from the highest existing version", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000001_create_rfq_tables.up.sql", "000001_create_rfq_tables.down.sql", "000004_create_orders.up.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- stub\n"), 0o644))
		}

		mf, err := CreateMigration(dir, "add coffee type index")
		require.NoError(t, err)
		assert.Equal(t, "000005", mf.Version)
	})

	t.Run("rejects names with no usable characters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!")
		assert.Error(t, err)
	})

	t.Run("stub carries the migration name", func(t *testing.T) {
		dir := t.TempDir()
		mf, err := CreateMigration(dir, "add payment entries")
		require.NoError(t, err)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "000001_add_payment_entries")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "rollback")
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("lists up migrations once in sequence order", func(t *testing.T) {
		dir := t.TempDir()
		files := []string{
			"000002_create_client_companies.up.sql",
			"000002_create_client_companies.down.sql",
			"000001_create_catalog_tables.up.sql",
			"000001_create_catalog_tables.down.sql",
		}
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- stub\n"), 0o644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_catalog_tables",
			"000002_create_client_companies",
		}, names)
	})

	t.Run("missing directory yields an empty list", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
