package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*AggNoGroupingIndexRule)(nil)

// AggNoGroupingIndexRule flags aggregation queries as covering-index
// candidates (R010).
type AggNoGroupingIndexRule struct{}

// Name implements Rule.
func (*AggNoGroupingIndexRule) Name() string { return "AGG_NO_GROUPING_INDEX" }

// Check reports one issue when the query uses any aggregate function.
func (r *AggNoGroupingIndexRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if len(q.Aggregates()) == 0 {
		return nil
	}
	return []*types.Issue{{
		Code:       "R010",
		Severity:   types.Severity_INFO,
		Message:    "Aggregation query may benefit from a covering index on GROUP BY and aggregated columns.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
