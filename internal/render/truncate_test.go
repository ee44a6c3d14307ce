package render

import (
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "R1: (A, B)", 20, "R1: (A, B)"},
		{"exact width", "R1: (A, B)", 10, "R1: (A, B)"},
		{"cut", "R1: (agent, traveler ssn)", 12, "R1: (agen..."},
		{"width of ellipsis", "R1: (A, B)", 3, "..."},
		{"zero width", "R1: (A, B)", 0, "..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncate_Styled(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	styled := "R1: (" + r.NewStyle().Bold(true).Render("traveler ssn") + ", agent)"

	got := Truncate(styled, 12)
	if w := lipgloss.Width(got); w != 12 {
		t.Errorf("visible width = %d, want 12 (got %q)", w, got)
	}
	if plain := ansi.Strip(got); plain != "R1: (trav..." {
		t.Errorf("plain text = %q, want %q", plain, "R1: (trav...")
	}
	if got == ansi.Strip(got) {
		t.Error("truncation dropped the styling")
	}
}
