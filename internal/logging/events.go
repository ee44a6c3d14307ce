package logging

import (
	"github.com/Iron-Ham/bcnf/internal/event"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Trace subscribes l to every event on bus and writes the decomposition
// trace: pass snapshots and classifications at DEBUG, violations and
// splits at INFO. It returns the subscription ID.
func (l *Logger) Trace(bus *event.Bus) string {
	log := l.WithPhase("decompose")
	return bus.SubscribeAll(func(e event.Event) {
		switch ev := e.(type) {
		case event.StartedEvent:
			log.Info("decomposition started",
				"relations", len(ev.Relations),
				"dependencies", ev.Dependencies)
		case event.RelationsEvent:
			log.Debug("pass started",
				"pass", ev.Pass,
				"relations", relationStrings(ev.Relations))
		case event.ClassifiedEvent:
			log.WithRelation(ev.Relation.String()).Debug("dependency classified",
				"dependency", ev.Dependency.String(),
				"kind", ev.Kind,
				"key", schema.SortedNames(ev.Key))
		case event.ViolationEvent:
			log.WithRelation(ev.Relation.String()).Info("violation found",
				"pass", ev.Pass,
				"index", ev.Index,
				"dependency", ev.Dependency.String())
		case event.SplitEvent:
			log.WithRelation(ev.Original.String()).Info("relation split",
				"pass", ev.Pass,
				"reduced", ev.Reduced.String(),
				"new", ev.New.String(),
				"cover", schema.SortedNames(ev.Cover))
		case event.CompletedEvent:
			log.Info("decomposition completed",
				"passes", ev.Passes,
				"splits", ev.Splits,
				"relations", relationStrings(ev.Relations))
		}
	})
}

func relationStrings(rels []schema.Relation) []string {
	out := make([]string, len(rels))
	for i, r := range rels {
		out[i] = r.String()
	}
	return out
}
