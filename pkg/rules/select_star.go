package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*SelectStarRule)(nil)

// SelectStarRule detects star projections (R001).
type SelectStarRule struct{}

// Name implements Rule.
func (*SelectStarRule) Name() string { return "SELECT_STAR" }

// Check reports one issue when the query projects `*` or `t.*`.
func (r *SelectStarRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if q.SelectStars() == 0 {
		return nil
	}
	return []*types.Issue{{
		Code:       "R001",
		Severity:   types.Severity_WARN,
		Message:    "Avoid SELECT * in production queries. Specify columns explicitly to reduce data transfer and improve maintainability.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
