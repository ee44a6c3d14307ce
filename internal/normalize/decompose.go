package normalize

import (
	"context"
	"fmt"
	"slices"

	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/event"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Decomposer runs the BCNF decomposition loop with a fixed set of options.
type Decomposer struct {
	opts     Options
	observer Observer
}

// New creates a Decomposer with DefaultOptions, adjusted by opts.
func New(opts ...Option) *Decomposer {
	d := &Decomposer{
		opts:     DefaultOptions(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Options returns the options d was built with.
func (d *Decomposer) Options() Options {
	return d.opts
}

// Key returns the key of rel under d's key derivation.
func (d *Decomposer) Key(rel schema.Relation, deps []schema.FD) schema.Attributes {
	if d.opts.StrictKeyClosure {
		return StrictPrimaryKey(rel, deps)
	}
	return PrimaryKey(rel, deps)
}

// Decompose splits violating relations until every relation in the working
// list is in BCNF with respect to deps.
//
// Each pass scans the working list in order. The first relation with a
// violation is replaced in place by two relations: the relation minus the
// attributes the violation's left-hand side determines, and the relation
// built from the left-hand side's cover. The scan then restarts. The loop
// ends on the first pass that finds no violation.
//
// The input slices are never modified. The context is checked once per
// pass; cancellation and the iteration cap are reported as a
// *errors.DecompositionError.
func (d *Decomposer) Decompose(ctx context.Context, relations []schema.Relation, deps []schema.FD) ([]schema.Relation, error) {
	if d.opts.ValidateInput {
		if err := validateInput(relations, deps); err != nil {
			return nil, err
		}
	}

	working := schema.CopyRelations(relations)
	deps = schema.CopyDependencies(deps)
	d.observer.Publish(event.NewStartedEvent(working, len(deps)))

	splits := 0
	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewDecompositionError("decomposition canceled", errors.Join(errors.ErrCanceled, err)).
				WithIterations(splits).
				WithRelations(len(working)).
				WithSeverity(errors.SeverityWarning)
		}

		d.observer.Publish(event.NewRelationsEvent(pass, working))

		index, violation, key, found := d.firstViolation(working, deps)
		if !found {
			d.observer.Publish(event.NewCompletedEvent(pass, splits, working))
			return working, nil
		}
		if d.opts.MaxIterations > 0 && splits >= d.opts.MaxIterations {
			return nil, errors.NewDecompositionError(
				fmt.Sprintf("still violating after %d splits", splits), errors.ErrNotConverged).
				WithIterations(splits).
				WithRelations(len(working))
		}

		original := working[index]
		d.observer.Publish(event.NewViolationEvent(pass, index, original, violation, key))

		reduced, created, cover := d.split(original, violation, deps)
		working = slices.Replace(working, index, index+1, reduced, created)
		splits++

		d.observer.Publish(event.NewSplitEvent(pass, index, original, reduced, created, violation, cover))
	}
}

// firstViolation returns the position, violating dependency and key of the
// first relation in working that is not in BCNF.
func (d *Decomposer) firstViolation(working []schema.Relation, deps []schema.FD) (int, schema.FD, schema.Attributes, bool) {
	for i, rel := range working {
		key := d.Key(rel, deps)
		if dep, ok := d.Violation(rel, deps, key); ok {
			return i, dep, key, true
		}
	}
	return -1, schema.FD{}, nil, false
}

// split divides rel on violation. The reduced relation keeps everything
// the violation's left-hand side does not determine; the new relation is
// the cover itself. Both share exactly the left-hand side.
func (d *Decomposer) split(rel schema.Relation, violation schema.FD, deps []schema.FD) (reduced, created schema.Relation, cover schema.Attributes) {
	cover = Cover(violation.LHS, deps)
	determined := attrset.Difference(cover, violation.LHS)

	reduced = rel.Copy()
	reduced.Attrs.Remove(determined)

	if d.opts.StrictKeyClosure {
		created = schema.Relation{Attrs: attrset.Intersection(cover, rel.Attrs)}
	} else {
		created = schema.Relation{Attrs: cover.Clone()}
	}
	return reduced, created, cover
}

func validateInput(relations []schema.Relation, deps []schema.FD) error {
	for i, rel := range relations {
		if rel.Attrs.Len() == 0 {
			return errors.NewValidationError("relation has no attributes").
				WithField(fmt.Sprintf("relations[%d]", i)).
				WithCause(errors.ErrEmptyRelation)
		}
	}
	return schema.ValidateDependencies(deps)
}

// Decompose runs the decomposition with DefaultOptions and no observer.
func Decompose(relations []schema.Relation, deps []schema.FD) ([]schema.Relation, error) {
	return New().Decompose(context.Background(), relations, deps)
}
