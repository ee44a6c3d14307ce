package normalize

import (
	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/event"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Classify reports how dep relates to key within rel.
//
// A dependency is inapplicable when rel lacks part of its left-hand side
// or none of its right-hand side lies in rel. Otherwise it is valid when
// its left-hand side contains key, partial when key contains its
// left-hand side, and transitive in every other case.
func Classify(rel schema.Relation, dep schema.FD, key schema.Attributes) Classification {
	if !rel.ContainsAll(dep.LHS) || !rel.ContainsAny(dep.RHS) {
		return Inapplicable
	}
	switch {
	case attrset.ContainsAll(dep.LHS, key):
		return Valid
	case attrset.ContainsAll(key, dep.LHS):
		return Partial
	default:
		return Transitive
	}
}

// classifyStrict treats a dependency as valid whenever its left-hand side
// is a superkey of rel, and as inapplicable when it adds no attribute of
// rel beyond its own left-hand side.
func classifyStrict(rel schema.Relation, dep schema.FD, key schema.Attributes, deps []schema.FD) Classification {
	if !rel.ContainsAll(dep.LHS) || !rel.ContainsAny(attrset.Difference(dep.RHS, dep.LHS)) {
		return Inapplicable
	}
	if IsSuperkey(dep.LHS, rel, deps) {
		return Valid
	}
	return Classify(rel, dep, key)
}

// DependencyViolation returns the dependency rel should be split on, or
// false when rel is in BCNF with respect to deps and key. The first
// partial dependency wins; otherwise the first transitive one is used.
// The returned dependency is a copy.
func DependencyViolation(rel schema.Relation, deps []schema.FD, key schema.Attributes) (schema.FD, bool) {
	return New().Violation(rel, deps, key)
}

// Violation is DependencyViolation under d's options. Each applicable
// dependency is published as an event.ClassifiedEvent.
func (d *Decomposer) Violation(rel schema.Relation, deps []schema.FD, key schema.Attributes) (schema.FD, bool) {
	var (
		transitive schema.FD
		found      bool
	)
	for _, dep := range deps {
		kind := d.classify(rel, dep, key, deps)
		if kind == Inapplicable {
			continue
		}
		d.observer.Publish(event.NewClassifiedEvent(rel, dep, key, kind.String()))

		if !kind.IsViolation() {
			continue
		}
		if kind == Partial {
			return dep.Copy(), true
		}
		if !found {
			transitive = dep.Copy()
			found = true
		}
	}
	return transitive, found
}

func (d *Decomposer) classify(rel schema.Relation, dep schema.FD, key schema.Attributes, deps []schema.FD) Classification {
	if d.opts.StrictKeyClosure {
		return classifyStrict(rel, dep, key, deps)
	}
	return Classify(rel, dep, key)
}
