package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fittrack/pkg/core"
)

const foodCSV = `Food , Calories_per_100g,Category
Apple,52,Fruit
Banana,89,Fruit
,10,Nameless
Bread,not-a-number,Bakery
Apple,999,Duplicate
`

const exerciseCSV = `"Activity, Exercise or Sport (1 hour)",130 lb,Calories per kg
"Cycling, mountain bike, bmx",502,1.75
"Running, 6 mph (10 min mile)",590,2.05
`

func TestLoad(t *testing.T) {
	table, err := Load("food", strings.NewReader(foodCSV), FoodColumns)
	require.NoError(t, err)

	assert.Equal(t, []string{"Apple", "Banana"}, table.Names())
	assert.Equal(t, 2, table.Len())

	rate, err := table.Rate("Apple")
	require.NoError(t, err)
	assert.Equal(t, 52.0, rate)

	_, err = table.Rate("Bread")
	assert.ErrorIs(t, err, core.ErrLookup)
	assert.EqualError(t, err, `"Bread" not found in food table`)
}

func TestLoad_Exercise(t *testing.T) {
	table, err := Load("exercise", strings.NewReader(exerciseCSV), ExerciseColumns)
	require.NoError(t, err)

	rate, err := table.Rate("Running, 6 mph (10 min mile)")
	require.NoError(t, err)
	assert.Equal(t, 2.05, rate)
}

func TestLoad_MissingColumns(t *testing.T) {
	_, err := Load("food", strings.NewReader("Name,kcal\nApple,52\n"), FoodColumns)
	assert.Error(t, err)
}

func TestFindDataset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "food.csv"), []byte(foodCSV), 0644))

	path, err := FindDataset(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "food.csv"), path)

	table, err := OpenFood(dir)
	require.NoError(t, err)
	assert.Equal(t, "food", table.Name())

	_, err = FindDataset(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew(t *testing.T) {
	table := New("food", map[string]float64{"Rice": 130, "Apple": 52})
	assert.Equal(t, []string{"Apple", "Rice"}, table.Names())
}
