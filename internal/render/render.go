package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/normalize"
	"github.com/Iron-Ham/bcnf/internal/schema"
	"github.com/Iron-Ham/bcnf/internal/verify"
)

// KeyFunc derives the key shown first for a relation.
type KeyFunc func(rel schema.Relation, deps []schema.FD) schema.Attributes

// Options configures a Renderer.
type Options struct {
	Format Format
	// Color enables ANSI styling in text output.
	Color bool
	// MaxWidth truncates text lines to this many columns; 0 disables it.
	MaxWidth int
	// Key defaults to normalize.PrimaryKey.
	Key KeyFunc
}

// Decomposition is a finished run ready for output.
type Decomposition struct {
	Name         string
	Original     schema.Relation
	Dependencies []schema.FD
	Relations    []schema.Relation
}

// Relation formats rel as "(key..., rest...)". Both groups are sorted.
func Relation(rel schema.Relation, deps []schema.FD) string {
	return formatRelation(rel, normalize.PrimaryKey(rel, deps), func(s string) string { return s })
}

func formatRelation(rel schema.Relation, key schema.Attributes, styleKey func(string) string) string {
	var parts []string
	for _, name := range orderedNames(rel, key) {
		if key.Has(schema.Attribute(name)) {
			parts = append(parts, styleKey(name))
		} else {
			parts = append(parts, name)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// orderedNames lists key attributes of rel first, then the rest.
func orderedNames(rel schema.Relation, key schema.Attributes) []string {
	var keyNames, rest []string
	for _, name := range schema.SortedNames(rel.Attrs) {
		if key.Has(schema.Attribute(name)) {
			keyNames = append(keyNames, name)
		} else {
			rest = append(rest, name)
		}
	}
	return append(keyNames, rest...)
}

// Renderer writes decompositions and reports in one format.
type Renderer struct {
	w    io.Writer
	opts Options

	heading lipgloss.Style
	label   lipgloss.Style
	key     lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Key == nil {
		opts.Key = normalize.PrimaryKey
	}

	lr := lipgloss.NewRenderer(w)
	if opts.Color {
		lr.SetColorProfile(termenv.TrueColor)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		w:       w,
		opts:    opts,
		heading: lr.NewStyle().Bold(true).Foreground(primaryColor),
		label:   lr.NewStyle().Foreground(secondaryColor),
		key:     lr.NewStyle().Bold(true).Underline(true),
		muted:   lr.NewStyle().Foreground(mutedColor),
		good:    lr.NewStyle().Bold(true).Foreground(secondaryColor),
		bad:     lr.NewStyle().Bold(true).Foreground(errorColor),
	}
}

var (
	primaryColor   = lipgloss.Color("#A78BFA")
	secondaryColor = lipgloss.Color("#10B981")
	mutedColor     = lipgloss.Color("#9CA3AF")
	errorColor     = lipgloss.Color("#F87171")
)

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.opts.Format
}

// relation formats rel with its key styled.
func (r *Renderer) relation(rel schema.Relation, deps []schema.FD) string {
	return formatRelation(rel, r.opts.Key(rel, deps), func(s string) string { return r.key.Render(s) })
}

// lines writes text lines, truncating each to MaxWidth.
func (r *Renderer) lines(lines ...string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		if r.opts.MaxWidth > 0 {
			line = Truncate(line, r.opts.MaxWidth)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	_, err := r.w.Write(buf.Bytes())
	return err
}

// Decomposition writes a finished run.
func (r *Renderer) Decomposition(d Decomposition) error {
	switch r.opts.Format {
	case FormatJSON:
		return r.json(r.decompositionView(d))
	case FormatYAML:
		return r.yaml(r.decompositionView(d))
	case FormatSQL:
		return r.sql(d)
	case FormatText:
		return r.decompositionText(d)
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownFormat, r.opts.Format)
	}
}

func (r *Renderer) decompositionText(d Decomposition) error {
	title := "Relation"
	if d.Name != "" {
		title += " " + d.Name
	}
	out := []string{
		r.heading.Render(title + ":"),
		"  " + r.relation(d.Original, d.Dependencies),
		"",
		r.heading.Render("Dependencies:"),
	}
	if len(d.Dependencies) == 0 {
		out = append(out, "  "+r.muted.Render("(none)"))
	}
	for _, dep := range d.Dependencies {
		out = append(out, "  "+dep.String())
	}
	out = append(out, "", r.heading.Render("Decomposition:"))
	for i, rel := range d.Relations {
		out = append(out, fmt.Sprintf("  %s %s", r.label.Render(fmt.Sprintf("R%d:", i+1)), r.relation(rel, d.Dependencies)))
	}
	return r.lines(out...)
}

// sql writes one CREATE TABLE statement per relation.
func (r *Renderer) sql(d Decomposition) error {
	var sb strings.Builder
	if d.Name != "" {
		fmt.Fprintf(&sb, "-- %s\n", d.Name)
	}
	for i, rel := range d.Relations {
		if i > 0 {
			sb.WriteString("\n")
		}
		key := r.opts.Key(rel, d.Dependencies)
		fmt.Fprintf(&sb, "-- R%d: %s\n", i+1, formatRelation(rel, key, func(s string) string { return s }))
		sb.WriteString(verify.CreateTable(fmt.Sprintf("r%d", i+1), rel, key))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(r.w, sb.String())
	return err
}

type relationView struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Key        []string `json:"key" yaml:"key"`
	Attributes []string `json:"attributes" yaml:"attributes"`
}

type dependencyView struct {
	LHS []string `json:"lhs" yaml:"lhs"`
	RHS []string `json:"rhs" yaml:"rhs"`
}

type decompositionView struct {
	Name         string           `json:"name,omitempty" yaml:"name,omitempty"`
	Original     relationView     `json:"original" yaml:"original"`
	Dependencies []dependencyView `json:"dependencies" yaml:"dependencies"`
	Relations    []relationView   `json:"relations" yaml:"relations"`
}

func (r *Renderer) relationView(name string, rel schema.Relation, deps []schema.FD) relationView {
	key := r.opts.Key(rel, deps)
	return relationView{
		Name:       name,
		Key:        nonNil(schema.SortedNames(key)),
		Attributes: nonNil(orderedNames(rel, key)),
	}
}

func (r *Renderer) decompositionView(d Decomposition) decompositionView {
	v := decompositionView{
		Name:         d.Name,
		Original:     r.relationView("", d.Original, d.Dependencies),
		Dependencies: make([]dependencyView, len(d.Dependencies)),
		Relations:    make([]relationView, len(d.Relations)),
	}
	for i, dep := range d.Dependencies {
		v.Dependencies[i] = dependencyView{
			LHS: nonNil(schema.SortedNames(dep.LHS)),
			RHS: nonNil(schema.SortedNames(dep.RHS)),
		}
	}
	for i, rel := range d.Relations {
		v.Relations[i] = r.relationView(fmt.Sprintf("R%d", i+1), rel, d.Dependencies)
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) yaml(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
