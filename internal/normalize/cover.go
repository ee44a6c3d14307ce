package normalize

import (
	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Cover returns the closure of attrs under deps: every attribute that
// attrs determines, attrs included. attrs is not modified.
func Cover(attrs schema.Attributes, deps []schema.FD) schema.Attributes {
	cover := attrs.Clone()
	for {
		added := false
		for _, dep := range deps {
			if attrset.ContainsAll(cover, dep.LHS) && !attrset.ContainsAll(cover, dep.RHS) {
				cover.Add(attrset.Sorted(dep.RHS)...)
				added = true
			}
		}
		if !added {
			return cover
		}
	}
}
