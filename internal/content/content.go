// Package content holds the informational pages shown outside the assessment.
package content

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

//go:embed pages/*.md
var pages embed.FS

// Names returns the available page names.
func Names() []string {
	entries, err := pages.ReadDir("pages")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Markdown returns the source of page name.
func Markdown(name string) (string, error) {
	data, err := pages.ReadFile("pages/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown page %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return string(data), nil
}

// Style selects how pages are rendered.
type Style string

const (
	StyleAuto  Style = "auto"
	StyleDark  Style = "dark"
	StyleLight Style = "light"
	StyleNoTTY Style = "notty"
)

// Render returns page name formatted for a terminal of the given width.
func Render(name string, style Style, width int) (string, error) {
	md, err := Markdown(name)
	if err != nil {
		return "", err
	}
	if width <= 0 {
		width = 80
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == StyleAuto || style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(string(style)))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return out, nil
}
