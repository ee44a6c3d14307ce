package render

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/bcnf/internal/schema"
	"github.com/Iron-Ham/bcnf/internal/verify"
)

type reportView struct {
	Lossless   bool     `json:"lossless" yaml:"lossless"`
	Rows       int      `json:"rows" yaml:"rows"`
	Joined     int      `json:"joined" yaml:"joined"`
	Missing    int      `json:"missing" yaml:"missing"`
	Spurious   int      `json:"spurious" yaml:"spurious"`
	Violations []string `json:"violations,omitempty" yaml:"violations,omitempty"`
	Uncovered  []string `json:"uncovered,omitempty" yaml:"uncovered,omitempty"`
}

// Report writes the result of a lossless-join check. The sql format has
// no encoding for reports and falls back to text.
func (r *Renderer) Report(rep *verify.Report) error {
	view := reportView{
		Lossless:   rep.Lossless,
		Rows:       rep.Rows,
		Joined:     rep.Joined,
		Missing:    rep.Missing,
		Spurious:   rep.Spurious,
		Violations: rep.Violations,
		Uncovered:  rep.Uncovered,
	}
	switch r.opts.Format {
	case FormatJSON:
		return r.json(view)
	case FormatYAML:
		return r.yaml(view)
	}

	status := r.good.Render("lossless")
	if !rep.Lossless {
		status = r.bad.Render("lossy")
	}
	out := []string{
		r.heading.Render("Lossless-join check:") + " " + status,
		fmt.Sprintf("  rows %d, joined %d, missing %d, spurious %d", rep.Rows, rep.Joined, rep.Missing, rep.Spurious),
	}
	if len(rep.Uncovered) > 0 {
		out = append(out, "  "+r.bad.Render("uncovered:")+" "+strings.Join(rep.Uncovered, ", "))
	}
	for _, v := range rep.Violations {
		out = append(out, "  "+r.bad.Render("instance violates")+" "+v)
	}
	return r.lines(out...)
}

type attributesView struct {
	Label      string   `json:"label" yaml:"label"`
	Attributes []string `json:"attributes" yaml:"attributes"`
}

// Attributes writes a labelled attribute set, such as a key or a closure.
// The sql format falls back to text.
func (r *Renderer) Attributes(label string, attrs schema.Attributes) error {
	names := nonNil(schema.SortedNames(attrs))
	switch r.opts.Format {
	case FormatJSON:
		return r.json(attributesView{Label: label, Attributes: names})
	case FormatYAML:
		return r.yaml(attributesView{Label: label, Attributes: names})
	}

	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = r.key.Render(n)
	}
	return r.lines(r.heading.Render(label+":") + " {" + strings.Join(styled, ", ") + "}")
}
