// Package cost produces a heuristic relative cost score for one query.
//
// Scoring sums weighted factors and caps the result to [0,100]. The
// full-scan factor picks exactly one size bucket per referenced table;
// the remaining factors are independent booleans over the query view and
// the raw query text. Evaluation order is fixed so the surfaced factor
// descriptions are deterministic.
package cost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Result is the cost estimate for one query.
type Result struct {
	// Score is the relative cost in [0,100]; higher is more expensive.
	Score int

	// Improvement is the banded improvement estimate, with up to the
	// first three triggered factor descriptions appended.
	Improvement string
}

// Row-hint thresholds for the full-scan factors.
const (
	largeTableRows  = 100000
	mediumTableRows = 10000
)

// Factor weights, in evaluation order.
const (
	weightFullScanLarge   = 50
	weightFullScanMedium  = 30
	weightFullScanUnknown = 15
	weightNonSargable     = 25
	weightCartesianJoin   = 40
	weightCorrelated      = 30
	weightLeadingWildcard = 20
	weightSelectStar      = 10
	weightOffset          = 15
)

// Estimate scores one query against the schema's row hints and returns
// the capped score with its banded improvement text.
func Estimate(q *queryast.Query, info types.TableInfo) Result {
	score := 0
	var factors []string

	if !q.HasWhere() {
		seen := make(map[string]bool)
		for _, table := range q.ReferencedTables() {
			if seen[table.Name] {
				continue
			}
			seen[table.Name] = true

			rows, ok := info.RowHint(table.Name)
			switch {
			case ok && rows > largeTableRows:
				score += weightFullScanLarge
				factors = append(factors, fmt.Sprintf("Full scan on large table '%s' (%s rows)", table.Name, formatRows(rows)))
			case ok && rows > mediumTableRows:
				score += weightFullScanMedium
				factors = append(factors, fmt.Sprintf("Full scan on table '%s' (%s rows)", table.Name, formatRows(rows)))
			default:
				score += weightFullScanUnknown
				factors = append(factors, fmt.Sprintf("Full scan on table '%s' (unknown size)", table.Name))
			}
		}
	}

	if queryast.TextHasLowerUpper(q.Raw()) {
		score += weightNonSargable
		factors = append(factors, "Non-SARGable function in WHERE clause")
	}

	if len(q.Joins()) > 0 && hasCartesianJoin(q) {
		score += weightCartesianJoin
		factors = append(factors, "Potential cartesian product")
	}

	if queryast.TextHasCorrelationSignal(q.Raw()) {
		score += weightCorrelated
		factors = append(factors, "Correlated subquery detected")
	}

	if queryast.TextHasLeadingWildcardLike(q.Raw()) {
		score += weightLeadingWildcard
		factors = append(factors, "LIKE with leading wildcard")
	}

	if q.SelectStars() > 0 {
		score += weightSelectStar
		factors = append(factors, "SELECT * increases data transfer")
	}

	if queryast.TextHasOffset(q.Raw()) {
		score += weightOffset
		factors = append(factors, "Large OFFSET forces row skipping")
	}

	if score > 100 {
		score = 100
	}

	improvement := band(score)
	if len(factors) > 0 {
		if len(factors) > 3 {
			factors = factors[:3]
		}
		improvement += " - Issues: " + strings.Join(factors, ", ")
	}

	return Result{Score: score, Improvement: improvement}
}

func hasCartesianJoin(q *queryast.Query) bool {
	if queryast.TextHasCrossJoin(q.Raw()) {
		return true
	}
	for _, join := range q.Joins() {
		if !join.HasCondition {
			return true
		}
	}
	return false
}

func band(score int) string {
	switch {
	case score < 15:
		return "Query looks well-optimized"
	case score < 35:
		return "Minor optimizations possible (1.2-2x speedup)"
	case score < 55:
		return "Moderate improvements available (2-4x speedup)"
	case score < 75:
		return "Significant optimization opportunities (4-10x speedup)"
	default:
		return "Major performance issues detected (10x+ speedup possible)"
	}
}

// formatRows renders a row count with thousands separators.
func formatRows(rows int64) string {
	s := strconv.FormatInt(rows, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
