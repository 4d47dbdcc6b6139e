package rules

import (
	"fmt"
	"strings"

	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*UnusedJoinRule)(nil)

// UnusedJoinRule detects joined tables whose columns are never
// referenced (R002). The comparison is over column references as written,
// so alias-qualified references do not count toward the joined table.
type UnusedJoinRule struct{}

// Name implements Rule.
func (*UnusedJoinRule) Name() string { return "UNUSED_JOIN" }

// Check reports one issue per join whose table contributes no column
// references.
func (r *UnusedJoinRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	var issues []*types.Issue
	referenced := q.ReferencedColumns()

	for _, join := range q.Joins() {
		if join.Table == "" {
			continue
		}

		used := false
		for _, col := range referenced {
			written := col.String()
			if strings.HasPrefix(written, join.Table+".") || written == join.Table {
				used = true
				break
			}
		}
		if used {
			continue
		}

		issues = append(issues, &types.Issue{
			Code:       "R002",
			Severity:   types.Severity_WARN,
			Message:    fmt.Sprintf("Join on table '%s' appears unused - no columns from this table are referenced in SELECT or WHERE clauses.", join.Table),
			Snippet:    types.Snippet(q.Raw()),
			Rule:       r.Name(),
			QueryIndex: queryIndex,
		})
	}
	return issues
}
