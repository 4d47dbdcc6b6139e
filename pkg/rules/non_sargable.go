package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*NonSargableRule)(nil)

// NonSargableRule detects functions wrapped around predicate operands
// (R004). The check scans the full query text and reports at most once
// per query.
type NonSargableRule struct{}

// Name implements Rule.
func (*NonSargableRule) Name() string { return "NON_SARGABLE" }

// Check reports one issue when a non-SARGable function pattern appears
// in the query text.
func (r *NonSargableRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if !queryast.TextHasNonSargableFunc(q.Raw()) {
		return nil
	}
	return []*types.Issue{{
		Code:       "R004",
		Severity:   types.Severity_WARN,
		Message:    "Function applied to column in WHERE clause prevents index usage. Consider rewriting to apply function to the constant instead.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
