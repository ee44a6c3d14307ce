// Package schema defines the value types the normalizer works on:
// attributes, functional dependencies and relations.
//
// Both FD and Relation hold maps, so they are copied explicitly with Copy
// whenever a value crosses an ownership boundary. Nothing in this module
// mutates a dependency after construction.
package schema

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/errors"
)

// Attribute is the name of a column in a relation.
type Attribute string

// Attributes is a set of attribute names.
type Attributes = attrset.Set[Attribute]

// NewAttributes returns a set holding the named attributes.
func NewAttributes(names ...string) Attributes {
	attrs := make([]Attribute, len(names))
	for i, n := range names {
		attrs[i] = Attribute(n)
	}
	return attrset.Of(attrs...)
}

// SortedNames returns the attribute names of s in ascending order.
func SortedNames(s Attributes) []string {
	sorted := attrset.Sorted(s)
	names := make([]string, len(sorted))
	for i, a := range sorted {
		names[i] = string(a)
	}
	return names
}

// FD is a functional dependency LHS -> RHS.
type FD struct {
	LHS Attributes
	RHS Attributes
}

// NewFD builds a dependency from attribute names.
func NewFD(lhs, rhs []string) FD {
	return FD{LHS: NewAttributes(lhs...), RHS: NewAttributes(rhs...)}
}

// Copy returns a dependency whose sets are disjoint from d's.
func (d FD) Copy() FD {
	return FD{LHS: d.LHS.Clone(), RHS: d.RHS.Clone()}
}

// Equal reports whether both sides of d and other hold the same attributes.
func (d FD) Equal(other FD) bool {
	return d.LHS.Equal(other.LHS) && d.RHS.Equal(other.RHS)
}

// Validate rejects dependencies with an empty side.
func (d FD) Validate() error {
	if d.LHS.Len() == 0 {
		return errors.NewDependencyError("invalid dependency", errors.ErrEmptyDeterminant).
			WithDependency(d.String())
	}
	if d.RHS.Len() == 0 {
		return errors.NewDependencyError("invalid dependency", errors.ErrEmptyDependent).
			WithDependency(d.String())
	}
	return nil
}

// String renders the dependency as "a -> b", bracing sides that hold more
// or fewer than one attribute: "{a, b} -> c".
func (d FD) String() string {
	return fmt.Sprintf("%s -> %s", formatSide(d.LHS), formatSide(d.RHS))
}

func formatSide(s Attributes) string {
	names := SortedNames(s)
	if len(names) == 1 {
		return names[0]
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// ValidateDependencies checks every dependency and returns the first
// failure, annotated with its position in deps.
func ValidateDependencies(deps []FD) error {
	for i, d := range deps {
		if err := d.Validate(); err != nil {
			var depErr *errors.DependencyError
			if errors.As(err, &depErr) {
				depErr.WithIndex(i)
			}
			return err
		}
	}
	return nil
}

// CopyDependencies returns a deep copy of deps.
func CopyDependencies(deps []FD) []FD {
	out := make([]FD, len(deps))
	for i, d := range deps {
		out[i] = d.Copy()
	}
	return out
}

// Relation is the heading of a table: a set of attributes.
type Relation struct {
	Attrs Attributes
}

// NewRelation builds a relation from attribute names.
func NewRelation(names ...string) Relation {
	return Relation{Attrs: NewAttributes(names...)}
}

// Copy returns a relation whose attribute set is disjoint from r's.
func (r Relation) Copy() Relation {
	return Relation{Attrs: r.Attrs.Clone()}
}

// ContainsAll reports whether r has every attribute in attrs.
func (r Relation) ContainsAll(attrs Attributes) bool {
	return attrset.ContainsAll(r.Attrs, attrs)
}

// ContainsAny reports whether r has at least one attribute in attrs.
func (r Relation) ContainsAny(attrs Attributes) bool {
	return attrset.ContainsAny(r.Attrs, attrs)
}

// Equal reports whether r and other have the same heading.
func (r Relation) Equal(other Relation) bool {
	return r.Attrs.Equal(other.Attrs)
}

// String renders the heading as "(a, b, c)" in sorted order.
func (r Relation) String() string {
	return "(" + strings.Join(SortedNames(r.Attrs), ", ") + ")"
}

// CopyRelations returns a deep copy of rels.
func CopyRelations(rels []Relation) []Relation {
	out := make([]Relation, len(rels))
	for i, r := range rels {
		out[i] = r.Copy()
	}
	return out
}
