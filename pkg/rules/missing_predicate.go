package rules

import (
	"fmt"

	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// missingPredicateRowThreshold is the row-hint above which a full scan
// is reported.
const missingPredicateRowThreshold = 10000

var _ Rule = (*MissingPredicateRule)(nil)

// MissingPredicateRule detects scans of large tables without a WHERE
// clause (R005). It is the only detector that consults TableInfo.
type MissingPredicateRule struct{}

// Name implements Rule.
func (*MissingPredicateRule) Name() string { return "MISSING_PREDICATE" }

// Check reports one issue per referenced table whose row hint exceeds
// the threshold, when the query has no WHERE clause.
func (r *MissingPredicateRule) Check(q *queryast.Query, info types.TableInfo, queryIndex int) []*types.Issue {
	if q.HasWhere() {
		return nil
	}

	var issues []*types.Issue
	seen := make(map[string]bool)
	for _, table := range q.ReferencedTables() {
		if seen[table.Name] {
			continue
		}
		seen[table.Name] = true

		rows, ok := info.RowHint(table.Name)
		if !ok || rows <= missingPredicateRowThreshold {
			continue
		}
		issues = append(issues, &types.Issue{
			Code:       "R005",
			Severity:   types.Severity_WARN,
			Message:    fmt.Sprintf("Query scans large table '%s' without WHERE clause. Consider adding filters to limit result set.", table.Name),
			Snippet:    types.Snippet(q.Raw()),
			Rule:       r.Name(),
			QueryIndex: queryIndex,
		})
	}
	return issues
}
