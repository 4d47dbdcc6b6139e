// Package queryast provides a dialect-neutral view over a parsed SQL
// query. A Query is built once from the native parse tree of the target
// dialect and is immutable afterwards; rules, the cost estimator and the
// index advisor consume it read-only.
package queryast

import (
	"fmt"

	"github.com/nsxbet/sql-auditor/pkg/types"
)

// ParseError reports that a query could not be parsed in the target
// dialect. It wraps the dialect parser's syntax error.
type ParseError struct {
	Dialect types.Dialect
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s query: %v", e.Dialect, e.Err)
}

// Unwrap returns the underlying dialect parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ColumnRef is a column reference as written in the query. Table is the
// written qualifier ("" when the reference is unqualified); it may be an
// alias rather than a table name.
type ColumnRef struct {
	Table string
	Name  string
}

// String returns the reference in its written "table.column" form.
func (c ColumnRef) String() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

// TableRef is a table referenced in a FROM or JOIN clause.
type TableRef struct {
	Name  string
	Alias string
}

// Join describes one join in the query.
type Join struct {
	// Table is the joined table's name; Alias its written alias, if any.
	Table string
	Alias string

	// Cross reports an explicit CROSS JOIN.
	Cross bool

	// HasCondition reports an ON or USING clause.
	HasCondition bool

	// Columns are the column references appearing in the join condition.
	Columns []ColumnRef
}

// Like describes one LIKE (or ILIKE) predicate in the query.
type Like struct {
	// Operand is the column on the left-hand side, when one could be
	// identified.
	Operand    ColumnRef
	HasOperand bool

	// Pattern is the literal pattern text; empty when the pattern is not
	// a string literal.
	Pattern string
}

// Query is the normalized, dialect-neutral view of one parsed SQL query.
// All views cover the entire statement including subqueries. A Query is
// immutable after construction and safe for concurrent reads.
type Query struct {
	raw     string
	dialect types.Dialect

	tables       []TableRef
	aliases      map[string]string
	joins        []Join
	hasWhere     bool
	whereColumns []ColumnRef
	orderColumns []ColumnRef
	groupColumns []ColumnRef
	selectStars  int
	distinct     bool
	likes        []Like
	aggregates   []string
	subqueries   int
	allColumns   []ColumnRef
}

// Parse parses a query in the given dialect and returns its normalized
// view. On syntax failure the error is a *ParseError.
func Parse(query string, dialect types.Dialect) (*Query, error) {
	switch dialect {
	case types.Dialect_POSTGRES:
		return parsePostgres(query)
	case types.Dialect_SQLITE:
		return parseSQLite(query)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// Raw returns the original query text.
func (q *Query) Raw() string { return q.raw }

// Dialect returns the dialect the query was parsed in.
func (q *Query) Dialect() types.Dialect { return q.dialect }

// ReferencedTables returns the tables referenced in FROM and JOIN
// clauses, in source order. The first entry is the primary table.
func (q *Query) ReferencedTables() []TableRef { return q.tables }

// TableAliases returns the alias-to-table lookup. Every referenced table
// also has an identity entry, so resolution never misses a plain name.
func (q *Query) TableAliases() map[string]string { return q.aliases }

// ResolveTable resolves a written table qualifier (alias or name) to the
// table name. Unknown qualifiers resolve to themselves.
func (q *Query) ResolveTable(name string) string {
	if t, ok := q.aliases[name]; ok {
		return t
	}
	return name
}

// HasWhere reports whether any WHERE clause is present.
func (q *Query) HasWhere() bool { return q.hasWhere }

// WhereColumns returns the column references of the WHERE clause.
func (q *Query) WhereColumns() []ColumnRef { return q.whereColumns }

// Joins returns the joins of the query.
func (q *Query) Joins() []Join { return q.joins }

// OrderByColumns returns the column references of ORDER BY clauses.
func (q *Query) OrderByColumns() []ColumnRef { return q.orderColumns }

// GroupByColumns returns the column references of GROUP BY clauses.
func (q *Query) GroupByColumns() []ColumnRef { return q.groupColumns }

// IsDistinct reports whether a SELECT DISTINCT is present.
func (q *Query) IsDistinct() bool { return q.distinct }

// Likes returns the LIKE predicates of the query.
func (q *Query) Likes() []Like { return q.likes }

// Aggregates returns the aggregate function names used, lowercased, in
// source order.
func (q *Query) Aggregates() []string { return q.aggregates }

// SubqueryCount returns the number of subqueries.
func (q *Query) SubqueryCount() int { return q.subqueries }

// SelectStars returns the number of star projections (`*` or `t.*`).
func (q *Query) SelectStars() int { return q.selectStars }

// ReferencedColumns returns every column reference in the query, as
// written.
func (q *Query) ReferencedColumns() []ColumnRef { return q.allColumns }

// aggregateFuncs are the function names treated as aggregates across both
// dialects.
var aggregateFuncs = map[string]bool{
	"count":        true,
	"sum":          true,
	"avg":          true,
	"min":          true,
	"max":          true,
	"total":        true,
	"group_concat": true,
	"string_agg":   true,
	"array_agg":    true,
}

func newQuery(raw string, dialect types.Dialect) *Query {
	return &Query{
		raw:     raw,
		dialect: dialect,
		aliases: make(map[string]string),
	}
}

// addTable records a referenced table and returns its index.
func (q *Query) addTable(name string) int {
	q.tables = append(q.tables, TableRef{Name: name})
	q.aliases[name] = name
	return len(q.tables) - 1
}

// setAlias attaches a written alias to the table at index idx.
func (q *Query) setAlias(idx int, alias string) {
	if idx < 0 || idx >= len(q.tables) || alias == "" {
		return
	}
	q.tables[idx].Alias = alias
	q.aliases[alias] = q.tables[idx].Name
}
