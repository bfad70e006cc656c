package date

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-7-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", d.String())

	_, err = Parse("01/07/2025")
	assert.Error(t, err)
}

func TestNewNormalizes(t *testing.T) {
	assert.Equal(t, MustParse("2024-02-01"), New(2024, 1, 32))
	assert.Equal(t, MustParse("2024-02-29"), MustParse("2024-03-01").Add(-1))
}

func TestSub(t *testing.T) {
	assert.Equal(t, 9, MustParse("2024-01-10").Sub(MustParse("2024-01-01")))
	assert.Equal(t, -1, MustParse("2023-12-31").Sub(MustParse("2024-01-01")))
}

func TestRangeContains(t *testing.T) {
	r := Range{From: MustParse("2024-01-05"), To: MustParse("2024-01-07")}
	assert.True(t, r.Contains(MustParse("2024-01-05")))
	assert.True(t, r.Contains(MustParse("2024-01-07")))
	assert.False(t, r.Contains(MustParse("2024-01-04")))
	assert.False(t, r.Contains(MustParse("2024-01-08")))
	assert.Equal(t, 3, r.Len())
}

func TestTrailing(t *testing.T) {
	r := Trailing(MustParse("2024-01-10"), 7)
	assert.Equal(t, MustParse("2024-01-03"), r.From)
	assert.Equal(t, 8, r.Len())
}

func TestRangeDays(t *testing.T) {
	r := Range{From: MustParse("2024-02-28"), To: MustParse("2024-03-01")}
	got := slices.Collect(r.Days())
	assert.Equal(t, []Date{MustParse("2024-02-28"), MustParse("2024-02-29"), MustParse("2024-03-01")}, got)

	empty := Range{From: MustParse("2024-03-01"), To: MustParse("2024-02-01")}
	assert.Empty(t, slices.Collect(empty.Days()))
	assert.Equal(t, 0, empty.Len())
}

func TestEncoding(t *testing.T) {
	type row struct {
		On Date `json:"on" yaml:"on"`
	}
	in := row{On: MustParse("2024-06-09")}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2024-06-09"}`, string(b))

	var out row
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	y, err := yaml.Marshal(in)
	require.NoError(t, err)
	var yout row
	require.NoError(t, yaml.Unmarshal(y, &yout))
	assert.Equal(t, in, yout)

	assert.Error(t, json.Unmarshal([]byte(`{"on":"not a date"}`), &out))
}
