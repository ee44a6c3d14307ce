package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ellipsis marks a truncated line.
const ellipsis = "..."

// Truncate shortens s to width visible columns, ending it with "...".
// Escape sequences do not count towards the width and are kept intact, so
// a styled key stays styled up to the cut. Widths too small to hold more
// than the ellipsis return the ellipsis alone.
func Truncate(s string, width int) string {
	if width <= len(ellipsis) {
		return ellipsis
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, ellipsis)
}
