package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateScaffoldsPair(t *testing.T) {
	dir := t.TempDir()

	pair, err := Create(dir, "add booking tables")
	require.NoError(t, err)

	assert.Len(t, pair.Version, 14)
	assert.True(t, strings.HasSuffix(pair.UpPath, "_add_booking_tables.up.sql"))
	assert.True(t, strings.HasSuffix(pair.DownPath, "_add_booking_tables.down.sql"))

	up, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add booking tables")

	down, err := os.ReadFile(pair.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")
}

func TestCreateMakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := Create(dir, "init")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_fx_rates", sanitizeName("Add FX Rates"))
	assert.Equal(t, "fix_2_things", sanitizeName("fix 2 things!!"))
	assert.Equal(t, "migration", sanitizeName("???"))
}
