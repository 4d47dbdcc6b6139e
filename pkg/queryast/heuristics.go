package queryast

import (
	"regexp"
	"strings"
)

// Text-level heuristic predicates over the raw query string. Several
// detectors and cost factors deliberately scan the original text instead
// of the syntax tree; keeping the checks behind named predicates lets a
// caller swap in a tree-based equivalent without touching call sites.

var (
	nonSargableRe      = regexp.MustCompile(`(LOWER|UPPER|TRIM|SUBSTRING|SUBSTR|CAST|DATE|YEAR|MONTH)\s*\(|::\s*\w+`)
	dottedComparisonRe = regexp.MustCompile(`\.\w+\s*[=<>]`)
	leadingWildcardRe  = regexp.MustCompile(`(?i)like\s+['"]%`)
	offsetRe           = regexp.MustCompile(`(?i)\boffset\b`)
)

// TextHasNonSargableFunc reports a function wrapped around a predicate
// operand (LOWER, UPPER, TRIM, SUBSTRING, CAST, date extraction, or a
// :: cast) anywhere in the query text.
func TextHasNonSargableFunc(query string) bool {
	return nonSargableRe.MatchString(strings.ToUpper(query))
}

// TextHasCorrelatedSubquery reports the correlated-subquery pattern: an
// EXISTS or IN (...) construct combined with a dotted column comparison.
func TextHasCorrelatedSubquery(query string) bool {
	lower := strings.ToLower(query)
	if !strings.Contains(lower, "exists") && !strings.Contains(lower, "in (") {
		return false
	}
	return dottedComparisonRe.MatchString(query)
}

// TextHasCorrelationSignal is the coarser correlation check used by cost
// scoring: EXISTS anywhere, or IN (...) together with any dotted
// reference.
func TextHasCorrelationSignal(query string) bool {
	upper := strings.ToUpper(query)
	if strings.Contains(upper, "EXISTS") {
		return true
	}
	return strings.Contains(upper, "IN (") && strings.Contains(query, ".")
}

// TextHasLeadingWildcardLike reports a LIKE pattern literal that begins
// with '%'.
func TextHasLeadingWildcardLike(query string) bool {
	return leadingWildcardRe.MatchString(query)
}

// TextHasOffset reports an OFFSET keyword in the query text.
func TextHasOffset(query string) bool {
	return offsetRe.MatchString(query)
}

// TextHasCrossJoin reports an explicit CROSS JOIN in the query text.
func TextHasCrossJoin(query string) bool {
	return strings.Contains(strings.ToUpper(query), "CROSS JOIN")
}

// TextHasLowerUpper reports a LOWER( or UPPER( call in the query text.
func TextHasLowerUpper(query string) bool {
	upper := strings.ToUpper(query)
	return strings.Contains(upper, "LOWER(") || strings.Contains(upper, "UPPER(")
}
