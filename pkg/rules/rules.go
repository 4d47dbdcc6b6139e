// Package rules contains the query anti-pattern detectors.
//
// Detectors are pure: the same query view and table info always produce
// the same issues, and no state is shared between detectors. They run in
// a fixed order so audit output is deterministic.
package rules

import (
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Rule is one anti-pattern detector.
type Rule interface {
	// Name returns the stable rule name (e.g. "SELECT_STAR").
	Name() string

	// Check inspects one query and returns its findings. queryIndex is
	// the 0-based position of the query in the audit input.
	Check(q *queryast.Query, info types.TableInfo, queryIndex int) []*types.Issue
}

// All returns the detectors in their fixed evaluation order.
func All() []Rule {
	return []Rule{
		&SelectStarRule{},
		&UnusedJoinRule{},
		&CartesianJoinRule{},
		&NonSargableRule{},
		&MissingPredicateRule{},
		&OrderByNoIndexRule{},
		&DistinctMisuseRule{},
		&NPlusOneRule{},
		&LikePrefixWildcardRule{},
		&AggNoGroupingIndexRule{},
	}
}

// RunAll evaluates every detector against one query, in order. A
// detector that panics on an unexpected tree shape contributes zero
// issues; the remaining detectors still run.
func RunAll(q *queryast.Query, info types.TableInfo, queryIndex int) []*types.Issue {
	var all []*types.Issue
	for _, rule := range All() {
		all = append(all, runRule(rule, q, info, queryIndex)...)
	}
	return all
}

func runRule(rule Rule, q *queryast.Query, info types.TableInfo, queryIndex int) (issues []*types.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
		}
	}()
	return rule.Check(q, info, queryIndex)
}
