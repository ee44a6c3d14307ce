package normalize

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/event"
	"github.com/Iron-Ham/bcnf/internal/event/eventtest"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

func travelRelation() schema.Relation {
	return schema.NewRelation(
		"traveler ssn", "agent", "years experience",
		"trip id", "start location", "end location",
		"passport number", "expiration date",
	)
}

func travelDeps() []schema.FD {
	return []schema.FD{
		fd([]string{"agent"}, []string{"years experience"}),
		fd([]string{"traveler ssn"}, []string{"passport number"}),
		fd([]string{"passport number"}, []string{"expiration date"}),
		fd([]string{"trip id"}, []string{"start location", "end location"}),
	}
}

func chainDeps() []schema.FD {
	return []schema.FD{fd([]string{"A"}, []string{"C"}), fd([]string{"C"}, []string{"D"})}
}

func assertRelations(t *testing.T, got, want []schema.Relation) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d relations %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("relation %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		rels []schema.Relation
		deps []schema.FD
		want []schema.Relation
	}{
		{
			name: "partial then transitive",
			rels: []schema.Relation{schema.NewRelation("A", "B", "C", "D")},
			deps: chainDeps(),
			want: []schema.Relation{
				schema.NewRelation("A", "B"),
				schema.NewRelation("A", "C"),
				schema.NewRelation("C", "D"),
			},
		},
		{
			name: "travel",
			rels: []schema.Relation{travelRelation()},
			deps: travelDeps(),
			// Four splits leave five relations: the residual
			// {ssn, agent, trip} is the fifth, not a leftover to remove.
			want: []schema.Relation{
				schema.NewRelation("traveler ssn", "agent", "trip id"),
				schema.NewRelation("trip id", "start location", "end location"),
				schema.NewRelation("traveler ssn", "passport number"),
				schema.NewRelation("passport number", "expiration date"),
				schema.NewRelation("agent", "years experience"),
			},
		},
		{
			name: "already in bcnf",
			rels: []schema.Relation{schema.NewRelation("A", "B")},
			deps: []schema.FD{fd([]string{"A"}, []string{"B"})},
			want: []schema.Relation{schema.NewRelation("A", "B")},
		},
		{
			name: "no dependencies",
			rels: []schema.Relation{schema.NewRelation("A", "B", "C")},
			want: []schema.Relation{schema.NewRelation("A", "B", "C")},
		},
		{
			name: "empty input",
			want: []schema.Relation{},
		},
		{
			name: "several relations keep their order",
			rels: []schema.Relation{
				schema.NewRelation("X", "Y"),
				schema.NewRelation("A", "B", "C", "D"),
			},
			deps: chainDeps(),
			want: []schema.Relation{
				schema.NewRelation("X", "Y"),
				schema.NewRelation("A", "B"),
				schema.NewRelation("A", "C"),
				schema.NewRelation("C", "D"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompose(tt.rels, tt.deps)
			if err != nil {
				t.Fatalf("Decompose() error = %v", err)
			}
			assertRelations(t, got, tt.want)
		})
	}
}

func TestDecompose_StrictMatchesReferenceOnExamples(t *testing.T) {
	cases := map[string]struct {
		rel  schema.Relation
		deps []schema.FD
	}{
		"chain":  {schema.NewRelation("A", "B", "C", "D"), chainDeps()},
		"travel": {travelRelation(), travelDeps()},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			ref, err := Decompose([]schema.Relation{c.rel}, c.deps)
			if err != nil {
				t.Fatal(err)
			}
			strict, err := New(WithStrictKeyClosure(true)).Decompose(context.Background(), []schema.Relation{c.rel}, c.deps)
			if err != nil {
				t.Fatal(err)
			}
			assertRelations(t, strict, ref)
		})
	}
}

func TestDecompose_ResultHasNoViolations(t *testing.T) {
	inputs := []struct {
		rel  schema.Relation
		deps []schema.FD
	}{
		{schema.NewRelation("A", "B", "C", "D"), chainDeps()},
		{travelRelation(), travelDeps()},
		{
			schema.NewRelation("A", "B", "C", "D", "E"),
			[]schema.FD{
				fd([]string{"A", "B"}, []string{"C"}),
				fd([]string{"C"}, []string{"D"}),
				fd([]string{"D"}, []string{"E"}),
			},
		},
	}

	for i, in := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			got, err := Decompose([]schema.Relation{in.rel}, in.deps)
			if err != nil {
				t.Fatal(err)
			}
			for _, rel := range got {
				if dep, ok := DependencyViolation(rel, in.deps, PrimaryKey(rel, in.deps)); ok {
					t.Errorf("%v still violates %v", rel, dep)
				}
			}
			again, err := Decompose(got, in.deps)
			if err != nil {
				t.Fatal(err)
			}
			assertRelations(t, again, got)
		})
	}
}

func TestDecompose_SplitsAreLossless(t *testing.T) {
	bus := event.NewBus()
	var rec eventtest.Recorder
	rec.Attach(bus)

	d := New(WithObserver(bus))
	if _, err := d.Decompose(context.Background(), []schema.Relation{travelRelation()}, travelDeps()); err != nil {
		t.Fatal(err)
	}

	splits := rec.OfType(event.TypeSplit)
	if len(splits) != 4 {
		t.Fatalf("got %d splits, want 4", len(splits))
	}
	for _, e := range splits {
		s := e.(event.SplitEvent)
		shared := attrset.Intersection(s.Reduced.Attrs, s.New.Attrs)
		if !shared.Equal(s.Dependency.LHS) {
			t.Errorf("split of %v shares %v, want %v", s.Original, schema.SortedNames(shared), schema.SortedNames(s.Dependency.LHS))
		}
		if !attrset.ContainsAll(attrset.Union(s.Reduced.Attrs, s.New.Attrs), s.Original.Attrs) {
			t.Errorf("split of %v loses attributes", s.Original)
		}
		if !s.New.Attrs.Equal(s.Cover) {
			t.Errorf("new relation %v is not the cover %v", s.New, schema.SortedNames(s.Cover))
		}
	}
}

func TestDecompose_EventSequence(t *testing.T) {
	bus := event.NewBus()
	var rec eventtest.Recorder
	rec.Attach(bus)

	d := New(WithObserver(bus))
	if _, err := d.Decompose(context.Background(), []schema.Relation{schema.NewRelation("A", "B", "C", "D")}, chainDeps()); err != nil {
		t.Fatal(err)
	}

	events := rec.Events()
	if len(events) == 0 {
		t.Fatal("no events published")
	}
	if events[0].EventType() != event.TypeStarted {
		t.Errorf("first event = %s, want %s", events[0].EventType(), event.TypeStarted)
	}
	last, ok := events[len(events)-1].(event.CompletedEvent)
	if !ok {
		t.Fatalf("last event = %T, want CompletedEvent", events[len(events)-1])
	}
	if last.Passes != 3 || last.Splits != 2 {
		t.Errorf("completed after %d passes and %d splits, want 3 and 2", last.Passes, last.Splits)
	}

	violations := rec.OfType(event.TypeViolation)
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(violations))
	}
	first := violations[0].(event.ViolationEvent)
	if !first.Dependency.Equal(fd([]string{"A"}, []string{"C"})) || first.Index != 0 {
		t.Errorf("first violation = %v at %d", first.Dependency, first.Index)
	}
	second := violations[1].(event.ViolationEvent)
	if !second.Dependency.Equal(fd([]string{"C"}, []string{"D"})) || second.Index != 1 {
		t.Errorf("second violation = %v at %d", second.Dependency, second.Index)
	}
	if got := len(rec.OfType(event.TypeRelations)); got != 3 {
		t.Errorf("got %d pass snapshots, want 3", got)
	}
}

func TestDecompose_TerminatesQuickly(t *testing.T) {
	bus := event.NewBus()
	var rec eventtest.Recorder
	rec.Attach(bus)

	d := New(WithObserver(bus))
	if _, err := d.Decompose(context.Background(), []schema.Relation{travelRelation()}, travelDeps()); err != nil {
		t.Fatal(err)
	}
	done := rec.OfType(event.TypeCompleted)[0].(event.CompletedEvent)
	if done.Passes > 50 {
		t.Errorf("took %d passes", done.Passes)
	}
	if done.Passes != 5 {
		t.Errorf("Passes = %d, want 5", done.Passes)
	}
}

func TestDecompose_DoesNotMutateInput(t *testing.T) {
	rels := []schema.Relation{travelRelation()}
	deps := travelDeps()

	got, err := Decompose(rels, deps)
	if err != nil {
		t.Fatal(err)
	}
	if len(rels) != 1 || !rels[0].Equal(travelRelation()) {
		t.Errorf("input relations modified: %v", rels)
	}
	for i, dep := range travelDeps() {
		if !deps[i].Equal(dep) {
			t.Errorf("dependency %d modified: %v", i, deps[i])
		}
	}

	got[0].Attrs.Add("extra")
	if rels[0].Attrs.Has("extra") {
		t.Error("result aliases the input")
	}
}

func TestDecompose_NotConverged(t *testing.T) {
	rels := []schema.Relation{schema.NewRelation("A", "B", "C")}
	deps := []schema.FD{fd([]string{"A", "B"}, []string{"A"})}

	_, err := New(WithMaxIterations(5)).Decompose(context.Background(), rels, deps)
	if !errors.Is(err, errors.ErrNotConverged) {
		t.Fatalf("error = %v, want ErrNotConverged", err)
	}
	var decompErr *errors.DecompositionError
	if !errors.As(err, &decompErr) {
		t.Fatalf("error %T is not a DecompositionError", err)
	}
	if decompErr.Iterations != 5 {
		t.Errorf("Iterations = %d, want 5", decompErr.Iterations)
	}

	got, err := New(WithStrictKeyClosure(true), WithMaxIterations(5)).Decompose(context.Background(), rels, deps)
	if err != nil {
		t.Fatalf("strict mode should ignore trivial dependencies, got %v", err)
	}
	assertRelations(t, got, rels)
}

func TestDecompose_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Decompose(ctx, []schema.Relation{travelRelation()}, travelDeps())
	if !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("error = %v, want ErrCanceled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.GetSeverity(err) != errors.SeverityWarning {
		t.Errorf("severity = %v, want warning", errors.GetSeverity(err))
	}
}

func TestDecompose_ValidatesInput(t *testing.T) {
	tests := []struct {
		name    string
		rels    []schema.Relation
		deps    []schema.FD
		wantErr error
	}{
		{
			name:    "empty lhs",
			rels:    []schema.Relation{schema.NewRelation("A", "B")},
			deps:    []schema.FD{fd([]string{"A"}, []string{"B"}), fd(nil, []string{"A"})},
			wantErr: errors.ErrEmptyDeterminant,
		},
		{
			name:    "empty rhs",
			rels:    []schema.Relation{schema.NewRelation("A", "B")},
			deps:    []schema.FD{fd([]string{"A"}, nil)},
			wantErr: errors.ErrEmptyDependent,
		},
		{
			name:    "empty relation",
			rels:    []schema.Relation{schema.NewRelation("A"), schema.NewRelation()},
			wantErr: errors.ErrEmptyRelation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(tt.rels, tt.deps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error = %v should match ErrInvalidInput", err)
			}
		})
	}
}

func TestDecompose_DependencyErrorIndex(t *testing.T) {
	deps := []schema.FD{fd([]string{"A"}, []string{"B"}), fd(nil, []string{"A"})}
	_, err := Decompose([]schema.Relation{schema.NewRelation("A", "B")}, deps)

	var depErr *errors.DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("error %T is not a DependencyError", err)
	}
	if depErr.Index != 1 {
		t.Errorf("Index = %d, want 1", depErr.Index)
	}
}

func TestDecompose_WithoutValidation(t *testing.T) {
	rels := []schema.Relation{schema.NewRelation("A", "B")}
	deps := []schema.FD{fd(nil, []string{"A"})}

	got, err := New(WithValidateInput(false)).Decompose(context.Background(), rels, deps)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	assertRelations(t, got, []schema.Relation{schema.NewRelation("B"), schema.NewRelation("A")})
}

func TestDecompose_Concurrent(t *testing.T) {
	rels := []schema.Relation{travelRelation()}
	deps := travelDeps()
	want, err := Decompose(rels, deps)
	if err != nil {
		t.Fatal(err)
	}

	d := New()
	var wg sync.WaitGroup
	results := make([][]schema.Relation, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.Decompose(context.Background(), rels, deps)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		assertRelations(t, results[i], want)
	}
}

func TestNew_Options(t *testing.T) {
	d := New()
	if got := d.Options(); got != DefaultOptions() {
		t.Errorf("New() options = %+v, want defaults", got)
	}

	custom := Options{StrictKeyClosure: true, MaxIterations: 3}
	got := New(WithStrictKeyClosure(true), WithMaxIterations(3), WithValidateInput(false)).Options()
	if got != custom {
		t.Errorf("New(opts...) options = %+v, want %+v", got, custom)
	}

	d = New(WithObserver(nil))
	if _, err := d.Decompose(context.Background(), []schema.Relation{schema.NewRelation("A")}, nil); err != nil {
		t.Errorf("nil observer: %v", err)
	}
}
