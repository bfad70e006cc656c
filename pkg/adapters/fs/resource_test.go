package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fittrack/pkg/core"
)

func TestResource_Load(t *testing.T) {
	dir := t.TempDir()
	res, err := NewResource(filepath.Join(dir, "goals.json"), nil)
	require.NoError(t, err)
	def := map[string]int{"default": 1}

	t.Run("Missing Returns Default", func(t *testing.T) {
		assert.Equal(t, def, Load(res, def))
		assert.ErrorIs(t, res.read(&map[string]int{}), core.ErrNotFound)
	})

	t.Run("Malformed Returns Default", func(t *testing.T) {
		require.NoError(t, os.WriteFile(res.Path, []byte(`{"a": "x"}`), 0644))
		assert.Equal(t, def, Load(res, def))
		assert.ErrorIs(t, res.read(&map[string]int{}), core.ErrMalformed)
	})

	t.Run("Save Then Load", func(t *testing.T) {
		require.NoError(t, res.Save(map[string]int{"alice": 2000}))
		assert.Equal(t, map[string]int{"alice": 2000}, Load(res, def))
	})

	t.Run("Unknown Extension", func(t *testing.T) {
		_, err := NewResource(filepath.Join(dir, "goals.toml"), nil)
		assert.Error(t, err)
	})
}

func TestTable(t *testing.T) {
	table := Table{Path: filepath.Join(t.TempDir(), "log.csv"), Header: []string{"date", "kcal"}}

	assert.Empty(t, table.Rows())

	require.NoError(t, table.Append([]string{"2024-01-01", "10"}))
	require.NoError(t, table.Append([]string{"2024-01-02", "20"}))
	assert.Equal(t, [][]string{{"2024-01-01", "10"}, {"2024-01-02", "20"}}, table.Rows())

	require.NoError(t, table.Rewrite([][]string{{"2024-01-03", "30"}}))
	assert.Equal(t, [][]string{{"2024-01-03", "30"}}, table.Rows())

	data, err := os.ReadFile(table.Path)
	require.NoError(t, err)
	assert.Equal(t, "date,kcal\n2024-01-03,30\n", string(data))

	t.Run("Ragged Rows Are Malformed", func(t *testing.T) {
		require.NoError(t, os.WriteFile(table.Path, []byte("date,kcal\n2024-01-01\n"), 0644))
		assert.Empty(t, table.Rows())
		_, err := table.read()
		assert.ErrorIs(t, err, core.ErrMalformed)
	})
}

func TestFormatExt(t *testing.T) {
	ext, err := FormatExt("")
	require.NoError(t, err)
	assert.Equal(t, ".json", ext)

	ext, err = FormatExt("YAML")
	require.NoError(t, err)
	assert.Equal(t, ".yaml", ext)

	_, err = FormatExt("xml")
	assert.Error(t, err)
}
