package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*CartesianJoinRule)(nil)

// CartesianJoinRule detects joins without an ON or USING condition
// (R003).
type CartesianJoinRule struct{}

// Name implements Rule.
func (*CartesianJoinRule) Name() string { return "CARTESIAN_JOIN" }

// Check reports one issue per join lacking an explicit join condition.
func (r *CartesianJoinRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	var issues []*types.Issue
	for _, join := range q.Joins() {
		if join.HasCondition {
			continue
		}
		issues = append(issues, &types.Issue{
			Code:       "R003",
			Severity:   types.Severity_ERROR,
			Message:    "Join without ON predicate creates a cartesian product. This can cause severe performance issues.",
			Snippet:    types.Snippet(q.Raw()),
			Rule:       r.Name(),
			QueryIndex: queryIndex,
		})
	}
	return issues
}
