package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*DistinctMisuseRule)(nil)

// DistinctMisuseRule detects DISTINCT combined with joins (R007), where
// the deduplication often papers over duplicate rows the join produces.
type DistinctMisuseRule struct{}

// Name implements Rule.
func (*DistinctMisuseRule) Name() string { return "DISTINCT_MISUSE" }

// Check reports one issue when DISTINCT and at least one join are both
// present.
func (r *DistinctMisuseRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if !q.IsDistinct() || len(q.Joins()) == 0 {
		return nil
	}
	return []*types.Issue{{
		Code:       "R007",
		Severity:   types.Severity_INFO,
		Message:    "DISTINCT used with joins may indicate duplicate rows from join conditions. Review join predicates.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
