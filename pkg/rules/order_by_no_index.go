package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*OrderByNoIndexRule)(nil)

// OrderByNoIndexRule flags ORDER BY clauses as index candidates (R006).
type OrderByNoIndexRule struct{}

// Name implements Rule.
func (*OrderByNoIndexRule) Name() string { return "ORDER_BY_NO_INDEX" }

// Check reports one issue when the query sorts by any column.
func (r *OrderByNoIndexRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if len(q.OrderByColumns()) == 0 {
		return nil
	}
	return []*types.Issue{{
		Code:       "R006",
		Severity:   types.Severity_INFO,
		Message:    "ORDER BY may benefit from an index on the sorted columns. Consider adding a covering index.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
