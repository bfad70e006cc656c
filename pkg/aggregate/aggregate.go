// Package aggregate computes derived metrics over a snapshot of logged records.
//
// Every function here is pure: it reads the slice it is given and returns a
// new value. Callers load the snapshot from a repository and pass it in.
package aggregate

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/aretw0/fittrack/pkg/date"
)

// Dated is implemented by records that belong to a calendar day.
type Dated interface {
	Day() date.Date
}

// Group is one bucket of a TopN result.
type Group struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// Point is one day of a DailySeries.
type Point struct {
	Date date.Date `json:"date"`
	Sum  float64   `json:"sum"`
}

// Stats bundles the usual summary figures of a series.
type Stats struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

// Round2 rounds x to two decimal places, halves away from zero.
// NaN and infinities are returned unchanged.
func Round2(x float64) float64 {
	if !finite(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// toDecimal skips values that have no decimal form.
func toDecimal(x float64) decimal.Decimal {
	if !finite(x) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}

// Total sums value over items. It returns 0 for an empty slice.
// NaN and infinite values are left out of the sum.
func Total[T any](items []T, value func(T) float64) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(toDecimal(value(it)))
	}
	return sum.InexactFloat64()
}

// Average returns the arithmetic mean of value over items.
// An empty slice has no mean; Average reports 0 in that case.
func Average[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return Total(items, value) / float64(len(items))
}

// Summarize returns count, total and average in one pass over the totals.
func Summarize[T any](items []T, value func(T) float64) Stats {
	return Stats{
		Count:   len(items),
		Total:   Total(items, value),
		Average: Average(items, value),
	}
}

// TopN groups items by key, sums value per group and returns the n largest
// sums in descending order. Equal sums keep the order in which their group
// was first seen. n <= 0 returns every group.
func TopN[T any](items []T, key func(T) string, value func(T) float64, n int) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		if v := value(it); finite(v) {
			groups[i].Total += v
		}
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		return cmp.Compare(b.Total, a.Total)
	})

	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// Windowed keeps the items whose day lies in r, boundaries included.
// Input order is preserved.
func Windowed[T Dated](items []T, r date.Range) []T {
	var out []T
	for _, it := range items {
		if r.Contains(it.Day()) {
			out = append(out, it)
		}
	}
	return out
}

// Trailing is the window of the last `days` days ending at end.
func Trailing(end date.Date, days int) date.Range {
	return date.Trailing(end, days)
}

// DailySeries sums value per day for the `days` calendar days ending at end,
// in chronological order. Days without items are reported with a zero sum.
func DailySeries[T Dated](items []T, end date.Date, days int, value func(T) float64) []Point {
	if days <= 0 {
		return nil
	}
	r := date.Range{From: end.Add(-(days - 1)), To: end}

	sums := make(map[date.Date]decimal.Decimal, days)
	for _, it := range items {
		d := it.Day()
		if !r.Contains(d) {
			continue
		}
		sums[d] = sums[d].Add(toDecimal(value(it)))
	}

	points := make([]Point, 0, days)
	for d := range r.Days() {
		points = append(points, Point{Date: d, Sum: sums[d].InexactFloat64()})
	}
	return points
}
