package normalize

import (
	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// PrimaryKey returns a candidate key for rel under deps by closure
// subtraction: starting from every attribute of rel, it removes the
// right-hand side of each dependency whose left-hand side rel contains.
// Dependencies are visited once, in order, so the result can depend on
// their order and is not guaranteed to be minimal.
func PrimaryKey(rel schema.Relation, deps []schema.FD) schema.Attributes {
	key := rel.Attrs.Clone()
	for _, dep := range deps {
		if rel.ContainsAll(dep.LHS) {
			key.Remove(dep.RHS)
		}
	}
	return key
}

// StrictPrimaryKey returns a minimal key for rel: attributes are dropped
// in sorted order as long as the closure of what remains still covers
// rel. The result does not depend on dependency order.
func StrictPrimaryKey(rel schema.Relation, deps []schema.FD) schema.Attributes {
	key := rel.Attrs.Clone()
	for _, a := range attrset.Sorted(rel.Attrs) {
		candidate := key.Clone()
		delete(candidate, a)
		if attrset.ContainsAll(Cover(candidate, deps), rel.Attrs) {
			key = candidate
		}
	}
	return key
}

// IsSuperkey reports whether attrs determines every attribute of rel.
func IsSuperkey(attrs schema.Attributes, rel schema.Relation, deps []schema.FD) bool {
	return attrset.ContainsAll(Cover(attrs, deps), rel.Attrs)
}
