package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
)

// outline parses markdown and returns its headings and the number of tables.
func outline(t *testing.T, markdown string) (headings []string, tables int) {
	t.Helper()

	source := []byte(markdown)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			headings = append(headings, b.String())
		case *extast.Table:
			tables++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return headings, tables
}

func sampleOverview() core.Overview {
	end := date.MustParse("2024-01-07")
	return core.Overview{
		User:   "alice",
		From:   date.MustParse("2024-01-06"),
		To:     end,
		Intake: aggregate.Stats{Count: 2, Total: 338, Average: 169},
		Burned: aggregate.Stats{Count: 1, Total: 343, Average: 343},
		Net:    -5,
		IntakeSeries: []aggregate.Point{
			{Date: date.MustParse("2024-01-06"), Sum: 338},
			{Date: end, Sum: 0},
		},
		BurnedSeries: []aggregate.Point{
			{Date: date.MustParse("2024-01-06"), Sum: 343},
			{Date: end, Sum: 0},
		},
		TopFoods:      []aggregate.Group{{Key: "Rice", Total: 260}, {Key: "Apple", Total: 78}},
		TopActivities: []aggregate.Group{{Key: "Running", Total: 30}},
		Days:          []core.DailySummary{{Date: end, InCal: 1800, OutCal: 300, Goal: 2000}},
	}
}

func TestOverview(t *testing.T) {
	md, err := Overview(sampleOverview())
	require.NoError(t, err)

	headings, tables := outline(t, md)
	assert.Equal(t, []string{
		"alice: 2024-01-06 to 2024-01-07",
		"Calories per day",
		"Top foods",
		"Top activities",
		"Daily summaries",
	}, headings)
	assert.Equal(t, 3, tables)

	assert.Contains(t, md, "| Intake | 2 | 338.00 | 169.00 |")
	assert.Contains(t, md, "| 2024-01-06 | 338.00 | 343.00 |")
	assert.Contains(t, md, "1. Rice: 260.00 kcal")
	assert.Contains(t, md, "2. Apple: 78.00 kcal")
	assert.Contains(t, md, "1. Running: 30.00 min")
	assert.Contains(t, md, "| 2024-01-07 | 1800 | 300 | 1500 | 2000 |")
	assert.Contains(t, md, "**-5.00 kcal**")
}

func TestOverview_Empty(t *testing.T) {
	md, err := Overview(core.Overview{User: "bob", From: date.MustParse("2024-01-01"), To: date.MustParse("2024-01-01")})
	require.NoError(t, err)

	headings, _ := outline(t, md)
	assert.NotContains(t, headings, "Daily summaries")
	assert.Contains(t, md, "No food logged.")
	assert.Contains(t, md, "No exercise logged.")
	assert.Contains(t, md, "**+0.00 kcal**")
}

func TestEntries(t *testing.T) {
	entries := []core.Entry{
		{Date: date.MustParse("2024-01-06"), Category: "Fish | chips", Quantity: 250, Calories: 595.5},
	}

	md, err := Entries("alice", core.Nutrition, entries)
	require.NoError(t, err)
	headings, tables := outline(t, md)
	assert.Equal(t, []string{"Nutrition log of alice"}, headings)
	assert.Equal(t, 1, tables)
	assert.Contains(t, md, `| 2024-01-06 | Fish \| chips | 250 | 595.50 |`)

	md, err = Entries("alice", core.Exercise, nil)
	require.NoError(t, err)
	assert.Contains(t, md, "Exercise log of alice")
	assert.Contains(t, md, "Nothing logged yet.")
}

func TestRender_Plain(t *testing.T) {
	md, err := Overview(sampleOverview())
	require.NoError(t, err)

	out, err := Render(md, 0, true)
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Rice")
}
