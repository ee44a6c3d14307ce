// Package attrset provides a small generic set type and the membership
// predicates used throughout the normalizer.
//
// Sets are plain maps, so the zero value of a Set is a valid empty set for
// reads. All operations that produce a set return a fresh map and never
// alias their inputs.
package attrset

import (
	"cmp"
	"maps"
	"slices"
)

// Set is an unordered collection of distinct elements.
type Set[T comparable] map[T]struct{}

// New returns an empty set with room for n elements.
func New[T comparable](n int) Set[T] {
	return make(Set[T], n)
}

// Of returns a set holding the given elements.
func Of[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// ContainsAll reports whether every element of required is in container.
// It is vacuously true when required is empty.
func ContainsAll[T comparable](container, required Set[T]) bool {
	for e := range required {
		if _, ok := container[e]; !ok {
			return false
		}
	}
	return true
}

// ContainsAny reports whether at least one element of candidates is in
// container. It is false when candidates is empty.
func ContainsAny[T comparable](container, candidates Set[T]) bool {
	for e := range candidates {
		if _, ok := container[e]; ok {
			return true
		}
	}
	return false
}

// Has reports whether e is a member of s.
func (s Set[T]) Has(e T) bool {
	_, ok := s[e]
	return ok
}

// Add inserts the elements into s.
func (s Set[T]) Add(elems ...T) {
	for _, e := range elems {
		s[e] = struct{}{}
	}
}

// Remove deletes every element of other from s.
func (s Set[T]) Remove(other Set[T]) {
	for e := range other {
		delete(s, e)
	}
}

// Len returns the number of elements in s.
func (s Set[T]) Len() int {
	return len(s)
}

// Clone returns an independent copy of s. Cloning a nil set yields an
// empty, non-nil set.
func (s Set[T]) Clone() Set[T] {
	c := make(Set[T], len(s))
	maps.Copy(c, s)
	return c
}

// Equal reports whether s and other hold the same elements.
func (s Set[T]) Equal(other Set[T]) bool {
	return len(s) == len(other) && ContainsAll(s, other)
}

// Union returns the elements in either a or b.
func Union[T comparable](a, b Set[T]) Set[T] {
	u := make(Set[T], len(a)+len(b))
	maps.Copy(u, a)
	maps.Copy(u, b)
	return u
}

// Difference returns the elements of a that are not in b.
func Difference[T comparable](a, b Set[T]) Set[T] {
	d := make(Set[T], len(a))
	for e := range a {
		if _, ok := b[e]; !ok {
			d[e] = struct{}{}
		}
	}
	return d
}

// Intersection returns the elements present in both a and b.
func Intersection[T comparable](a, b Set[T]) Set[T] {
	if len(b) < len(a) {
		a, b = b, a
	}
	i := make(Set[T], len(a))
	for e := range a {
		if _, ok := b[e]; ok {
			i[e] = struct{}{}
		}
	}
	return i
}

// Sorted returns the elements of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}
