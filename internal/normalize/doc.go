// Package normalize decomposes relations into Boyce-Codd Normal Form.
//
// Given one or more relations and a list of functional dependencies, the
// [Decomposer] repeatedly looks for a relation with a dependency whose
// left-hand side is not a key, splits that relation on the dependency's
// closure, and stops once a full pass finds nothing to split. Every split
// is lossless: the two replacement relations share exactly the violating
// dependency's left-hand side. Dependencies are not necessarily preserved.
//
// # Operations
//
//   - [PrimaryKey]: a candidate key by closure subtraction (one pass, order dependent)
//   - [StrictPrimaryKey]: a minimal key computed from attribute closures
//   - [Cover]: the closure of an attribute set under a dependency list
//   - [DependencyViolation]: the dependency to split a relation on, if any
//   - [Decompose]: the full decomposition loop
//
// The package-level functions use the default [Options]. Construct a
// [Decomposer] to change options or to observe progress.
//
// # Tie-breaking
//
// The first relation in the working list with a violation is split first.
// Within a relation, the first partial dependency wins; failing that, the
// first transitive one. The reduced relation takes the violating
// relation's place and the relation built from the cover follows it.
//
// # Key Derivation
//
// [PrimaryKey] starts from every attribute of the relation and removes the
// right-hand side of each dependency whose left-hand side the relation
// contains, in list order, without revisiting earlier dependencies. The
// result therefore depends on dependency order. Set
// Options.StrictKeyClosure to use [StrictPrimaryKey] instead; in that mode
// a dependency is also considered valid whenever its left-hand side
// determines the whole relation, dependencies that add nothing new to the
// relation are ignored, and the relation built from a cover is restricted
// to the attributes of the relation being split.
//
// # Observability
//
// Progress is published to an [Observer], typically an *event.Bus. The
// result never depends on whether an observer is attached.
//
// # Thread Safety
//
// A [Decomposer] holds no mutable state; concurrent calls are safe as long
// as callers do not mutate the inputs while a call is running. Inputs are
// copied before use and never retained.
package normalize
