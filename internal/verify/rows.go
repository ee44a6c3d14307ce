package verify

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Row maps attribute names to values.
type Row map[string]string

// RowsFromMaps converts decoded document rows.
func RowsFromMaps(maps []map[string]string) []Row {
	rows := make([]Row, len(maps))
	for i, m := range maps {
		rows[i] = Row(m)
	}
	return rows
}

// GenerateRows returns n rows over rel that satisfy every dependency whose
// left-hand side lies inside rel. Values are drawn from small per-attribute
// domains so that joins have matches; the same seed yields the same rows.
//
// Rows are first filled at random and then repaired by chasing each
// dependency: when two rows agree on the left-hand side but not on a
// right-hand side attribute, the later value is replaced by the earlier
// one in every row. Each replacement removes a distinct value from a
// column, so the chase terminates.
func GenerateRows(rel schema.Relation, deps []schema.FD, n int, seed int64) []Row {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9E3779B97F4A7C15))

	cols := schema.SortedNames(rel.Attrs)
	domain := max(2, n/4)

	rows := make([]Row, n)
	for i := range rows {
		row := make(Row, len(cols))
		for _, c := range cols {
			row[c] = fmt.Sprintf("%s-%d", c, rng.IntN(domain))
		}
		rows[i] = row
	}

	chase(rows, rel, deps)
	return rows
}

// chase enforces deps on rows in place.
func chase(rows []Row, rel schema.Relation, deps []schema.FD) {
	type rule struct {
		lhs []string
		rhs []string
	}
	var rules []rule
	for _, dep := range deps {
		if !rel.ContainsAll(dep.LHS) || !rel.ContainsAny(dep.RHS) {
			continue
		}
		var rhs []string
		for _, a := range schema.SortedNames(dep.RHS) {
			if rel.Attrs.Has(schema.Attribute(a)) && !dep.LHS.Has(schema.Attribute(a)) {
				rhs = append(rhs, a)
			}
		}
		if len(rhs) > 0 {
			rules = append(rules, rule{lhs: schema.SortedNames(dep.LHS), rhs: rhs})
		}
	}

	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			first := make(map[string]Row, len(rows))
			for _, row := range rows {
				k := groupKey(row, r.lhs)
				leader, ok := first[k]
				if !ok {
					first[k] = row
					continue
				}
				for _, c := range r.rhs {
					if row[c] != leader[c] {
						replace(rows, c, row[c], leader[c])
						changed = true
					}
				}
			}
		}
	}
}

func replace(rows []Row, col, from, to string) {
	for _, row := range rows {
		if row[col] == from {
			row[col] = to
		}
	}
}

func groupKey(row Row, cols []string) string {
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}
	return strings.Join(vals, "\x00")
}
