package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

var _ Rule = (*LikePrefixWildcardRule)(nil)

// LikePrefixWildcardRule detects LIKE patterns that begin with a
// wildcard (R009). Patterns with only interior or trailing wildcards can
// still use an index and are not reported.
type LikePrefixWildcardRule struct{}

// Name implements Rule.
func (*LikePrefixWildcardRule) Name() string { return "LIKE_PREFIX_WILDCARD" }

// Check reports one issue when the query has a LIKE predicate whose
// pattern starts with '%'.
func (r *LikePrefixWildcardRule) Check(q *queryast.Query, _ types.TableInfo, queryIndex int) []*types.Issue {
	if len(q.Likes()) == 0 || !queryast.TextHasLeadingWildcardLike(q.Raw()) {
		return nil
	}
	return []*types.Issue{{
		Code:       "R009",
		Severity:   types.Severity_WARN,
		Message:    "LIKE pattern with leading wildcard prevents index usage. Consider full-text search or restructuring the query.",
		Snippet:    types.Snippet(q.Raw()),
		Rule:       r.Name(),
		QueryIndex: queryIndex,
	}}
}
