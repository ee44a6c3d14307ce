// Package event defines the progress events emitted while a relation is
// decomposed, and the bus that delivers them.
package event

import (
	"time"

	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Event type identifiers. Convention: "category.action".
const (
	TypeStarted    = "decomposition.started"
	TypeRelations  = "decomposition.relations"
	TypeClassified = "dependency.classified"
	TypeViolation  = "violation.found"
	TypeSplit      = "relation.split"
	TypeCompleted  = "decomposition.completed"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Decomposition Lifecycle Events
// -----------------------------------------------------------------------------

// StartedEvent is emitted once before the first pass.
type StartedEvent struct {
	baseEvent
	Relations    []schema.Relation // Copy of the input relations
	Dependencies int               // Number of dependencies in play
}

// NewStartedEvent creates a StartedEvent. The relations are copied.
func NewStartedEvent(rels []schema.Relation, deps int) StartedEvent {
	return StartedEvent{
		baseEvent:    newBaseEvent(TypeStarted),
		Relations:    schema.CopyRelations(rels),
		Dependencies: deps,
	}
}

// RelationsEvent reports the working relation list at the start of a pass.
type RelationsEvent struct {
	baseEvent
	Pass      int               // 1-based pass number
	Relations []schema.Relation // Snapshot of the working list
}

// NewRelationsEvent creates a RelationsEvent. The relations are copied.
func NewRelationsEvent(pass int, rels []schema.Relation) RelationsEvent {
	return RelationsEvent{
		baseEvent: newBaseEvent(TypeRelations),
		Pass:      pass,
		Relations: schema.CopyRelations(rels),
	}
}

// CompletedEvent is emitted when a pass finds no violation.
type CompletedEvent struct {
	baseEvent
	Passes    int               // Passes run, including the final clean one
	Splits    int               // Number of splits performed
	Relations []schema.Relation // The decomposition
}

// NewCompletedEvent creates a CompletedEvent. The relations are copied.
func NewCompletedEvent(passes, splits int, rels []schema.Relation) CompletedEvent {
	return CompletedEvent{
		baseEvent: newBaseEvent(TypeCompleted),
		Passes:    passes,
		Splits:    splits,
		Relations: schema.CopyRelations(rels),
	}
}

// -----------------------------------------------------------------------------
// Violation Events
// -----------------------------------------------------------------------------

// ClassifiedEvent reports how an applicable dependency relates to a
// relation's key. Inapplicable dependencies are not reported.
type ClassifiedEvent struct {
	baseEvent
	Relation   schema.Relation
	Dependency schema.FD
	Key        schema.Attributes
	Kind       string // "valid", "partial" or "transitive"
}

// NewClassifiedEvent creates a ClassifiedEvent from copies of its inputs.
func NewClassifiedEvent(rel schema.Relation, dep schema.FD, key schema.Attributes, kind string) ClassifiedEvent {
	return ClassifiedEvent{
		baseEvent:  newBaseEvent(TypeClassified),
		Relation:   rel.Copy(),
		Dependency: dep.Copy(),
		Key:        key.Clone(),
		Kind:       kind,
	}
}

// ViolationEvent is emitted when a relation is found to break BCNF.
type ViolationEvent struct {
	baseEvent
	Pass       int
	Index      int // Position of the relation in the working list
	Relation   schema.Relation
	Dependency schema.FD
	Key        schema.Attributes
}

// NewViolationEvent creates a ViolationEvent from copies of its inputs.
func NewViolationEvent(pass, index int, rel schema.Relation, dep schema.FD, key schema.Attributes) ViolationEvent {
	return ViolationEvent{
		baseEvent:  newBaseEvent(TypeViolation),
		Pass:       pass,
		Index:      index,
		Relation:   rel.Copy(),
		Dependency: dep.Copy(),
		Key:        key.Clone(),
	}
}

// SplitEvent is emitted after a violating relation has been replaced by
// its reduced relation and the relation built from the cover.
type SplitEvent struct {
	baseEvent
	Pass       int
	Index      int // Position of Original; Reduced now sits here, New at Index+1
	Original   schema.Relation
	Reduced    schema.Relation
	New        schema.Relation
	Dependency schema.FD
	Cover      schema.Attributes
}

// NewSplitEvent creates a SplitEvent from copies of its inputs.
func NewSplitEvent(pass, index int, original, reduced, created schema.Relation, dep schema.FD, cover schema.Attributes) SplitEvent {
	return SplitEvent{
		baseEvent:  newBaseEvent(TypeSplit),
		Pass:       pass,
		Index:      index,
		Original:   original.Copy(),
		Reduced:    reduced.Copy(),
		New:        created.Copy(),
		Dependency: dep.Copy(),
		Cover:      cover.Clone(),
	}
}
