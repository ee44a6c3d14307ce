package verify

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Iron-Ham/bcnf/internal/attrset"
	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

// Report is the outcome of a lossless-join check.
type Report struct {
	Rows     int // distinct rows of the original instance
	Joined   int // rows produced by joining the projections
	Missing  int // original rows absent from the join
	Spurious int // joined rows absent from the original
	Lossless bool

	// Violations lists dependencies the instance itself breaks. A join
	// check over such an instance proves nothing about the decomposition.
	Violations []string
	// Uncovered lists original attributes that no part contains.
	Uncovered []string
}

// Err returns nil for a lossless check over a consistent instance, and a
// *errors.VerifyError otherwise.
func (r *Report) Err() error {
	switch {
	case len(r.Violations) > 0:
		return errors.NewVerifyError(
			fmt.Sprintf("instance violates %s", strings.Join(r.Violations, "; ")),
			errors.ErrInstanceViolatesDependency)
	case !r.Lossless:
		return errors.NewVerifyError(
			fmt.Sprintf("join has %d missing and %d spurious rows", r.Missing, r.Spurious),
			errors.ErrLossyJoin)
	default:
		return nil
	}
}

// Verifier checks decompositions against an in-memory SQLite database.
// Checks on one Verifier are serialized by the single connection.
type Verifier struct {
	db  *sql.DB
	seq atomic.Int64
}

// Open creates a Verifier backed by a private in-memory database.
func Open(ctx context.Context) (*Verifier, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.NewVerifyError("failed to open sqlite", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewVerifyError("failed to open sqlite", err)
	}
	return &Verifier{db: db}, nil
}

// Close releases the database.
func (v *Verifier) Close() error {
	return v.db.Close()
}

// Check loads rows as an instance of original, projects it onto each part
// and joins the projections back together. The decomposition is lossless
// for this instance when the join reproduces it exactly.
//
// Part attributes outside original are ignored. Dependencies are checked
// against the instance first and reported in Report.Violations.
func (v *Verifier) Check(ctx context.Context, original schema.Relation, parts []schema.Relation, deps []schema.FD, rows []Row) (*Report, error) {
	if original.Attrs.Len() == 0 {
		return nil, errors.NewVerifyError("original relation has no attributes", errors.ErrEmptyRelation)
	}

	cols := schema.SortedNames(original.Attrs)
	prefix := fmt.Sprintf("chk%d", v.seq.Add(1))
	base := prefix + "_orig"
	joined := prefix + "_join"

	var created []string
	defer func() {
		for _, t := range created {
			_, _ = v.db.ExecContext(context.WithoutCancel(ctx), "DROP TABLE IF EXISTS "+QuoteIdent(t))
		}
	}()

	if err := v.exec(ctx, base, createStmt(base, cols)); err != nil {
		return nil, err
	}
	created = append(created, base)
	if err := v.load(ctx, base, cols, rows); err != nil {
		return nil, err
	}

	report := &Report{}
	violations, err := v.dependencyViolations(ctx, base, original, deps)
	if err != nil {
		return nil, err
	}
	report.Violations = violations

	if report.Rows, err = v.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT %s FROM %s)", columnList(cols), QuoteIdent(base))); err != nil {
		return nil, err
	}

	covered := schema.NewAttributes()
	var projections []string
	for i, part := range parts {
		inside := attrset.Intersection(part.Attrs, original.Attrs)
		if inside.Len() == 0 {
			continue
		}
		covered = attrset.Union(covered, inside)
		partCols := schema.SortedNames(inside)

		table := fmt.Sprintf("%s_p%d", prefix, i+1)
		query := fmt.Sprintf("CREATE TABLE %s AS SELECT DISTINCT %s FROM %s",
			QuoteIdent(table), columnList(partCols), QuoteIdent(base))
		if err := v.exec(ctx, table, query); err != nil {
			return nil, err
		}
		created = append(created, table)
		projections = append(projections, QuoteIdent(table))
	}

	if uncovered := attrset.Difference(original.Attrs, covered); uncovered.Len() > 0 {
		report.Uncovered = schema.SortedNames(uncovered)
		report.Joined = 0
		report.Missing = report.Rows
		return report, nil
	}

	query := fmt.Sprintf("CREATE TABLE %s AS SELECT DISTINCT %s FROM %s",
		QuoteIdent(joined), columnList(cols), strings.Join(projections, " NATURAL JOIN "))
	if err := v.exec(ctx, joined, query); err != nil {
		return nil, err
	}
	created = append(created, joined)

	if report.Joined, err = v.count(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(joined)); err != nil {
		return nil, err
	}
	if report.Missing, err = v.count(ctx, exceptCount(cols, base, joined)); err != nil {
		return nil, err
	}
	if report.Spurious, err = v.count(ctx, exceptCount(cols, joined, base)); err != nil {
		return nil, err
	}
	report.Lossless = report.Missing == 0 && report.Spurious == 0
	return report, nil
}

func createStmt(table string, cols []string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = QuoteIdent(c) + " TEXT NOT NULL"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(table), strings.Join(defs, ", "))
}

func exceptCount(cols []string, left, right string) string {
	list := columnList(cols)
	return fmt.Sprintf("SELECT COUNT(*) FROM (SELECT %s FROM %s EXCEPT SELECT %s FROM %s)",
		list, QuoteIdent(left), list, QuoteIdent(right))
}

// load inserts rows in one transaction. Every row must carry a value for
// every column.
func (v *Verifier) load(ctx context.Context, table string, cols []string, rows []Row) error {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewVerifyError("failed to begin load", err).WithTable(table)
	}
	defer func() { _ = tx.Rollback() }()

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(table), columnList(cols),
		strings.TrimRight(strings.Repeat("?,", len(cols)), ","))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return errors.NewVerifyError("failed to prepare insert", err).WithTable(table).WithQuery(q)
	}
	defer func() { _ = stmt.Close() }()

	vals := make([]any, len(cols))
	for i, row := range rows {
		for j, c := range cols {
			val, ok := row[c]
			if !ok {
				return errors.NewValidationError("row is missing an attribute").
					WithField(fmt.Sprintf("rows[%d]", i)).
					WithValue(c)
			}
			vals[j] = val
		}
		if _, err := stmt.ExecContext(ctx, vals...); err != nil {
			return errors.NewVerifyError(fmt.Sprintf("insert row %d", i), err).WithTable(table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewVerifyError("failed to commit load", err).WithTable(table)
	}
	return nil
}

// dependencyViolations lists the dependencies the loaded instance breaks:
// some left-hand side value maps to more than one right-hand side value.
func (v *Verifier) dependencyViolations(ctx context.Context, table string, rel schema.Relation, deps []schema.FD) ([]string, error) {
	var out []string
	for _, dep := range deps {
		if !rel.ContainsAll(dep.LHS) || !rel.ContainsAny(dep.RHS) {
			continue
		}
		lhs := schema.SortedNames(dep.LHS)
		for _, target := range schema.SortedNames(attrset.Intersection(dep.RHS, rel.Attrs)) {
			q := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT 1 FROM %s GROUP BY %s HAVING COUNT(DISTINCT %s) > 1)",
				QuoteIdent(table), columnList(lhs), QuoteIdent(target))
			n, err := v.count(ctx, q)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				out = append(out, dep.String())
				break
			}
		}
	}
	return out, nil
}

func (v *Verifier) exec(ctx context.Context, table, query string) error {
	if _, err := v.db.ExecContext(ctx, query); err != nil {
		return errors.NewVerifyError("statement failed", err).WithTable(table).WithQuery(query)
	}
	return nil
}

func (v *Verifier) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := v.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, errors.NewVerifyError("query failed", err).WithQuery(query)
	}
	return n, nil
}
