package attrset

import (
	"slices"
	"testing"
)

func TestContainsAll(t *testing.T) {
	tests := []struct {
		name      string
		container Set[string]
		required  Set[string]
		want      bool
	}{
		{"empty required is vacuously true", Of("a"), Of[string](), true},
		{"nil required is vacuously true", Of("a"), nil, true},
		{"both empty", nil, nil, true},
		{"subset", Of("a", "b", "c"), Of("a", "c"), true},
		{"equal", Of("a", "b"), Of("b", "a"), true},
		{"missing element", Of("a", "b"), Of("a", "z"), false},
		{"empty container", nil, Of("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAll(tt.container, tt.required); got != tt.want {
				t.Errorf("ContainsAll(%v, %v) = %v, want %v", tt.container, tt.required, got, tt.want)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name       string
		container  Set[string]
		candidates Set[string]
		want       bool
	}{
		{"empty candidates is false", Of("a"), Of[string](), false},
		{"nil candidates is false", Of("a"), nil, false},
		{"one shared element", Of("a", "b"), Of("b", "z"), true},
		{"disjoint", Of("a", "b"), Of("y", "z"), false},
		{"empty container", nil, Of("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAny(tt.container, tt.candidates); got != tt.want {
				t.Errorf("ContainsAny(%v, %v) = %v, want %v", tt.container, tt.candidates, got, tt.want)
			}
		})
	}
}

func TestContainsAll_NonString(t *testing.T) {
	if !ContainsAll(Of(1, 2, 3), Of(3, 1)) {
		t.Error("ContainsAll should work for int sets")
	}
	if ContainsAny(Of(1, 2), Of(4)) {
		t.Error("ContainsAny(Of(1, 2), Of(4)) should be false")
	}
}

func TestClone_Independent(t *testing.T) {
	orig := Of("a", "b")
	c := orig.Clone()
	c.Add("c")
	delete(c, "a")

	if !orig.Equal(Of("a", "b")) {
		t.Errorf("original mutated through clone: %v", orig)
	}

	var nilSet Set[string]
	if nilSet.Clone() == nil {
		t.Error("Clone of nil set should be non-nil")
	}
}

func TestSetAlgebra(t *testing.T) {
	a := Of("a", "b", "c")
	b := Of("b", "c", "d")

	if got := Sorted(Union(a, b)); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Union = %v", got)
	}
	if got := Sorted(Difference(a, b)); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Difference = %v", got)
	}
	if got := Sorted(Intersection(a, b)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Intersection = %v", got)
	}

	// inputs untouched
	if a.Len() != 3 || b.Len() != 3 {
		t.Errorf("inputs mutated: a=%v b=%v", a, b)
	}
}

func TestRemove(t *testing.T) {
	s := Of("a", "b", "c")
	s.Remove(Of("b", "z"))

	if got := Sorted(s); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("after Remove = %v, want [a c]", got)
	}
	if s.Has("b") {
		t.Error("b should have been removed")
	}
}
