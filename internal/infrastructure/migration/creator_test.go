package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair with headers", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add vendors table", "Vendor directory for sourcing")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14, "version should be a YYYYMMDDHHMMSS stamp")
		assert.Equal(t, filepath.Join(dir, mf.Version+"_add_vendors_table.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_add_vendors_table.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- Migration: add vendors table")
		assert.Contains(t, string(up), "-- Description: Vendor directory for sourcing")
		assert.Contains(t, string(up), "Forward migration SQL")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "-- Migration: add vendors table (rollback)")
		assert.Contains(t, string(down), "Rollback for Vendor directory for sourcing")
	})

	t.Run("creates the migrations directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db", "migrations")

		mf, err := CreateMigration(dir, "create purchase orders", "")
		require.NoError(t, err)

		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"add vendors table", "add_vendors_table"},
		{"Create-Purchase-Orders", "create_purchase_orders"},
		{"quote   expiry  sweep", "quote_expiry_sweep"},
		{"ADD_QUOTE_COLUMNS", "add_quote_columns"},
		{"tier2 discounts", "tier2_discounts"},
		{"drop temp! tables?", "drop_temp_tables"},
		{"--vendor-ratings--", "vendor_ratings"},
		{"trailing space ", "trailing_space"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.name), "input %q", tt.name)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("returns one entry per pair, ignoring other files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260101000000_create_purchase_orders.up.sql",
			"20260101000000_create_purchase_orders.down.sql",
			"20260102000000_add_vendor_ratings.up.sql",
			"20260102000000_add_vendor_ratings.down.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql\n"), 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"20260101000000_create_purchase_orders",
			"20260102000000_add_vendor_ratings",
		}, migrations)
	})

	t.Run("missing directory is treated as empty", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
