package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a Base16 palette. Verdict colouring reads Base08 for errors,
// Base0A for warnings and Base0B for passing subsystems; Base0D marks keys
// and borders.
type Theme struct {
	Name   string
	Base00 lipgloss.Color // Background
	Base01 lipgloss.Color // Header and status bar background
	Base02 lipgloss.Color // Selected row
	Base03 lipgloss.Color // Stopped / disabled
	Base04 lipgloss.Color // Dim text
	Base05 lipgloss.Color // Foreground
	Base06 lipgloss.Color // Emphasised foreground
	Base07 lipgloss.Color // Light background
	Base08 lipgloss.Color // Error
	Base09 lipgloss.Color // Orange
	Base0A lipgloss.Color // Warning
	Base0B lipgloss.Color // Success
	Base0C lipgloss.Color // Trend
	Base0D lipgloss.Color // Keys, borders
	Base0E lipgloss.Color // Section headings, messages
	Base0F lipgloss.Color // Brown
}

// DefaultSlug names the theme used when none is configured.
const DefaultSlug = "solarized-dark"

var (
	// DefaultTheme is the palette for DefaultSlug.
	DefaultTheme = Themes[DefaultSlug]
	slugs        = sortedSlugs()
)

func sortedSlugs() []string {
	out := make([]string, 0, len(Themes))
	for slug := range Themes {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the theme registered under slug.
func Lookup(slug string) (Theme, bool) {
	t, ok := Themes[slug]
	return t, ok
}

// Slugs returns the theme slugs in sorted order.
func Slugs() []string {
	return append([]string(nil), slugs...)
}

// Next returns the slug following current in sorted order, wrapping at the
// end. An unknown slug yields the first theme.
func Next(current string) string {
	for i, s := range slugs {
		if s == current {
			return slugs[(i+1)%len(slugs)]
		}
	}
	return slugs[0]
}
