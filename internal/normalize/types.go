package normalize

import "github.com/Iron-Ham/bcnf/internal/event"

// DefaultMaxIterations bounds the number of splits a Decomposer performs.
const DefaultMaxIterations = 1000

// Classification describes how a dependency relates to a relation's key.
type Classification int

const (
	// Inapplicable dependencies say nothing observable within the relation.
	Inapplicable Classification = iota
	// Valid dependencies have a superkey on the left-hand side.
	Valid
	// Partial dependencies have a left-hand side contained in the key.
	Partial
	// Transitive dependencies have a left-hand side that is neither a
	// superkey nor contained in the key.
	Transitive
)

// String returns the lowercase name of the classification.
func (c Classification) String() string {
	switch c {
	case Inapplicable:
		return "inapplicable"
	case Valid:
		return "valid"
	case Partial:
		return "partial"
	case Transitive:
		return "transitive"
	default:
		return "unknown"
	}
}

// IsViolation reports whether the classification breaks BCNF.
func (c Classification) IsViolation() bool {
	return c == Partial || c == Transitive
}

// Observer receives progress events. *event.Bus satisfies it.
type Observer interface {
	Publish(event.Event)
}

type nopObserver struct{}

func (nopObserver) Publish(event.Event) {}

// Options controls the decomposition algorithm.
type Options struct {
	// StrictKeyClosure switches key derivation to StrictPrimaryKey and
	// applies the closure-based superkey test (default: false).
	StrictKeyClosure bool
	// MaxIterations caps the number of splits; 0 means unbounded
	// (default: DefaultMaxIterations).
	MaxIterations int
	// ValidateInput rejects empty relations and dependencies with an
	// empty side before decomposing (default: true).
	ValidateInput bool
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		StrictKeyClosure: false,
		MaxIterations:    DefaultMaxIterations,
		ValidateInput:    true,
	}
}

// Option configures a Decomposer.
type Option func(*Decomposer)

// WithObserver sets the observer progress events are published to.
// A nil observer disables publishing.
func WithObserver(o Observer) Option {
	return func(d *Decomposer) {
		if o == nil {
			o = nopObserver{}
		}
		d.observer = o
	}
}

// WithStrictKeyClosure toggles closure-based key derivation.
func WithStrictKeyClosure(strict bool) Option {
	return func(d *Decomposer) {
		d.opts.StrictKeyClosure = strict
	}
}

// WithMaxIterations sets the split cap; 0 means unbounded.
func WithMaxIterations(n int) Option {
	return func(d *Decomposer) {
		d.opts.MaxIterations = n
	}
}

// WithValidateInput toggles input validation.
func WithValidateInput(validate bool) Option {
	return func(d *Decomposer) {
		d.opts.ValidateInput = validate
	}
}
