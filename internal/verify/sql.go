package verify

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/bcnf/internal/schema"
)

// QuoteIdent quotes name as an SQL identifier. Embedded double quotes are
// doubled, so attribute names with spaces or quotes are safe.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnList returns the quoted, comma-separated column names in order.
func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = QuoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

// CreateTable returns a CREATE TABLE statement for rel. Key attributes come
// first and form the primary key; every column is TEXT NOT NULL. An empty
// key produces a table without a PRIMARY KEY clause.
func CreateTable(table string, rel schema.Relation, key schema.Attributes) string {
	keyCols := schema.SortedNames(key)
	restCols := schema.SortedNames(rel.Attrs)

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (\n", QuoteIdent(table))

	var lines []string
	for _, c := range keyCols {
		lines = append(lines, fmt.Sprintf("  %s TEXT NOT NULL", QuoteIdent(c)))
	}
	for _, c := range restCols {
		if key.Has(schema.Attribute(c)) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s TEXT NOT NULL", QuoteIdent(c)))
	}
	if len(keyCols) > 0 {
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", columnList(keyCols)))
	}
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n);")
	return sb.String()
}
