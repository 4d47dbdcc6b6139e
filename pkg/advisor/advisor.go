// Package advisor recommends indexes for one query.
//
// For each referenced table the advisor derives column usage by kind
// (WHERE, JOIN condition, ORDER BY, GROUP BY), builds btree suggestions
// in a fixed construction order with coverage checks, adds GIN
// suggestions for leading-wildcard LIKE predicates on the postgres-like
// dialect, and finally deduplicates by (table, column sequence, kind)
// preserving first-seen order.
package advisor

import (
	"fmt"
	"strings"

	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Recommend returns the index suggestions for one query.
func Recommend(q *queryast.Query, _ types.TableInfo, dialect types.Dialect) []*types.IndexSuggestion {
	tables := uniqueTables(q.ReferencedTables())
	if len(tables) == 0 {
		return nil
	}
	primary := tables[0]

	var joinColumns []queryast.ColumnRef
	for _, join := range q.Joins() {
		joinColumns = append(joinColumns, join.Columns...)
	}

	var suggestions []*types.IndexSuggestion
	for _, table := range tables {
		whereCols := columnsForTable(q, q.WhereColumns(), table, primary, len(tables), false)
		joinCols := columnsForTable(q, joinColumns, table, primary, len(tables), true)
		orderCols := columnsForTable(q, q.OrderByColumns(), table, primary, len(tables), false)
		groupCols := columnsForTable(q, q.GroupByColumns(), table, primary, len(tables), false)

		var tableSuggestions []*types.IndexSuggestion

		switch {
		case len(whereCols) > 0 && len(orderCols) > 0:
			combined := truncate(dedupe(append(append([]string{}, whereCols...), orderCols...)), 4)
			tableSuggestions = append(tableSuggestions, &types.IndexSuggestion{
				Table:               table,
				Columns:             combined,
				Kind:                types.IndexKind_BTREE,
				Rationale:           fmt.Sprintf("Composite index for WHERE filtering and ORDER BY on %s", strings.Join(combined, ", ")),
				ExpectedImprovement: "Avoids filesort and speeds up filtering",
			})
		case len(whereCols) > 0:
			cols := truncate(whereCols, 3)
			tableSuggestions = append(tableSuggestions, &types.IndexSuggestion{
				Table:               table,
				Columns:             cols,
				Kind:                types.IndexKind_BTREE,
				Rationale:           fmt.Sprintf("Supports WHERE clause filtering on %s", strings.Join(cols, ", ")),
				ExpectedImprovement: "Faster predicate evaluation",
			})
		}

		if len(joinCols) > 0 {
			unique := dedupe(joinCols)
			if !covers(tableSuggestions, unique[0]) {
				cols := truncate(unique, 2)
				tableSuggestions = append(tableSuggestions, &types.IndexSuggestion{
					Table:               table,
					Columns:             cols,
					Kind:                types.IndexKind_BTREE,
					Rationale:           fmt.Sprintf("Optimizes JOIN performance on %s", strings.Join(cols, ", ")),
					ExpectedImprovement: "Faster join execution",
				})
			}
		}

		if len(orderCols) > 0 && !covers(tableSuggestions, orderCols[0]) {
			cols := truncate(orderCols, 2)
			tableSuggestions = append(tableSuggestions, &types.IndexSuggestion{
				Table:               table,
				Columns:             cols,
				Kind:                types.IndexKind_BTREE,
				Rationale:           fmt.Sprintf("Improves ORDER BY performance on %s", strings.Join(cols, ", ")),
				ExpectedImprovement: "Avoids sort operation",
			})
		}

		if len(groupCols) > 0 {
			cols := truncate(groupCols, 2)
			tableSuggestions = append(tableSuggestions, &types.IndexSuggestion{
				Table:               table,
				Columns:             cols,
				Kind:                types.IndexKind_BTREE,
				Rationale:           fmt.Sprintf("Speeds up GROUP BY on %s", strings.Join(cols, ", ")),
				ExpectedImprovement: "Faster aggregation",
			})
		}

		if dialect == types.Dialect_POSTGRES {
			tableSuggestions = append(tableSuggestions, ginSuggestions(q, table, tables)...)
		}

		suggestions = append(suggestions, tableSuggestions...)
	}

	return dedupeSuggestions(suggestions)
}

// ginSuggestions emits a GIN suggestion per leading-wildcard LIKE
// predicate whose operand resolves to the given table.
func ginSuggestions(q *queryast.Query, table string, tables []string) []*types.IndexSuggestion {
	var out []*types.IndexSuggestion
	for _, like := range q.Likes() {
		if !like.HasOperand || like.Operand.Name == "" {
			continue
		}
		if !strings.HasPrefix(like.Pattern, "%") {
			continue
		}

		actual := ""
		if like.Operand.Table != "" {
			actual = q.TableAliases()[like.Operand.Table]
		} else if len(tables) == 1 {
			actual = tables[0]
		}
		if actual != table {
			continue
		}

		out = append(out, &types.IndexSuggestion{
			Table:               table,
			Columns:             []string{like.Operand.Name},
			Kind:                types.IndexKind_GIN,
			Rationale:           fmt.Sprintf("Supports full-text search on %s", like.Operand.Name),
			ExpectedImprovement: "Faster text pattern matching",
		})
	}
	return out
}

// columnsForTable filters column references down to those attributable
// to one table. Qualified references resolve their prefix through the
// alias map; unqualified references attach to the sole table, the
// primary table, or (for join-condition columns) every join table.
func columnsForTable(q *queryast.Query, refs []queryast.ColumnRef, table, primary string, tableCount int, isJoin bool) []string {
	var cols []string
	for _, ref := range refs {
		if ref.Name == "" {
			continue
		}
		if ref.Table != "" {
			if q.TableAliases()[ref.Table] == table {
				cols = append(cols, ref.Name)
			}
			continue
		}
		if table == primary || tableCount == 1 || isJoin {
			cols = append(cols, ref.Name)
		}
	}
	return cols
}

// covers reports whether any existing suggestion already includes the
// column.
func covers(suggestions []*types.IndexSuggestion, column string) bool {
	for _, s := range suggestions {
		for _, c := range s.Columns {
			if c == column {
				return true
			}
		}
	}
	return false
}

func uniqueTables(refs []queryast.TableRef) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		if ref.Name == "" || seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true
		out = append(out, ref.Name)
	}
	return out
}

func dedupe(cols []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func truncate(cols []string, n int) []string {
	if len(cols) > n {
		return cols[:n]
	}
	return cols
}

func dedupeSuggestions(suggestions []*types.IndexSuggestion) []*types.IndexSuggestion {
	var out []*types.IndexSuggestion
	seen := make(map[string]bool)
	for _, s := range suggestions {
		key := s.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
