// Package report renders tracker views as Markdown and, for terminals, as
// styled text through glamour.
package report

import (
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

//go:embed templates/*.md
var templates embed.FS

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 80

var funcs = template.FuncMap{
	"kcal":   func(v float64) string { return strconv.FormatFloat(aggregate.Round2(v), 'f', 2, 64) },
	"qty":    func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"signed": func(v float64) string { return fmt.Sprintf("%+.2f", aggregate.Round2(v)) },
	"inc":    func(i int) int { return i + 1 },
	"cell":   func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
	"burnedAt": func(series []aggregate.Point, i int) float64 {
		if i < len(series) {
			return series[i].Sum
		}
		return 0
	},
}

// Overview renders an overview: totals, the per-day series, the top
// foods and activities, and the daily summaries of the window.
func Overview(o core.Overview) (string, error) {
	partials := map[string]string{
		"series": "series.md",
		"top":    "top.md",
		"days":   "days.md",
	}
	return renderTemplate("overview", "overview.md", partials, o)
}

// Entries renders one log as a table.
func Entries(user string, kind core.Kind, entries []core.Entry) (string, error) {
	data := struct {
		Title    string
		Category string
		Unit     string
		Entries  []core.Entry
	}{
		Title:    fmt.Sprintf("%s log of %s", kindTitle(kind), user),
		Category: "Food",
		Unit:     "Grams",
		Entries:  entries,
	}
	if kind == core.Exercise {
		data.Category, data.Unit = "Activity", "Minutes"
	}
	return renderTemplate("entries", "entries.md", nil, data)
}

func kindTitle(k core.Kind) string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// renderTemplate executes a main template that depends on several partials.
func renderTemplate(name, mainFile string, partials map[string]string, data any) (string, error) {
	content, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return "", fmt.Errorf("error reading template %q: %w", mainFile, err)
	}

	tmpl, err := template.New(name).Funcs(funcs).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("error parsing template %q: %w", mainFile, err)
	}

	for alias, file := range partials {
		partial, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return "", fmt.Errorf("error reading partial %q: %w", file, err)
		}
		if _, err := tmpl.New(alias).Parse(string(partial)); err != nil {
			return "", fmt.Errorf("error parsing partial %q: %w", file, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("error executing template %q: %w", name, err)
	}
	return b.String(), nil
}

// Render formats markdown for a terminal. With plain, the "notty" style is
// used, which keeps the output free of ANSI sequences.
func Render(markdown string, width int, plain bool) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
