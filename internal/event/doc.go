// Package event provides a pub-sub event bus through which the normalizer
// reports its progress.
//
// The decomposition driver never prints. It publishes events to an
// observer, and whoever cares (the CLI's logger, a test recorder from
// package eventtest, a future UI) subscribes. Results are identical whether or not anyone listens.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Lifecycle:
//   - [StartedEvent]: before the first pass
//   - [RelationsEvent]: the working relation list at the start of each pass
//   - [CompletedEvent]: a pass found no violation
//
// Violations:
//   - [ClassifiedEvent]: an applicable dependency was classified valid, partial or transitive
//   - [ViolationEvent]: the dependency chosen to split a relation
//   - [SplitEvent]: a relation was replaced by its reduced and cover relations
//
// Every event carries copies of the relations and dependencies it
// mentions, so handlers may keep them after the decomposition moves on.
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and protected against panics.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	bus.Subscribe(event.TypeSplit, func(e event.Event) {
//	    split := e.(event.SplitEvent)
//	    fmt.Println("split", split.Original, "on", split.Dependency)
//	})
//
//	result, err := normalize.New(normalize.WithObserver(bus)).Decompose(ctx, rels, deps)
package event
