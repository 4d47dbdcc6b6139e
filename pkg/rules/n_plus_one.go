package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*NPlusOneRule)(nil)

// NPlusOneRule detects correlated-subquery patterns (R008) via the text
// heuristic: an EXISTS or IN (...) construct combined with a dotted
// column comparison.
type NPlusOneRule struct{}

// Name implements Rule.
func (*NPlusOneRule) Name() string { return "N_PLUS_ONE_PATTERN" }

// Check reports one issue when the correlated-subquery pattern matches.
func (r *NPlusOneRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if !queryast.TextHasCorrelatedSubquery(q.Raw()) {
		return nil
	}
	return []*types.Issue{{
		Code:       "R008",
		Severity:   types.Severity_WARN,
		Message:    "Correlated subquery detected. Consider rewriting as JOIN for better performance.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
