package auditor

import (
	"fmt"

	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Result contains the output of one audit: every issue and index
// suggestion in query order, plus aggregate statistics.
type Result struct {
	// Summary provides aggregate statistics about the findings.
	Summary types.AuditSummary `json:"summary"`

	// Issues contains all findings across all queries, in query order.
	// Empty if no issues were found.
	Issues []*types.Issue `json:"issues"`

	// Indexes contains the recommended indexes across all queries, in
	// query order.
	Indexes []*types.IndexSuggestion `json:"indexes"`
}

// HasErrors returns true if the audit found any error-severity issues.
//
// This is useful for CI/CD pipelines that should fail on errors:
//
//	if result.HasErrors() {
//	    os.Exit(1)
//	}
func (r *Result) HasErrors() bool {
	return r.Summary.HighSeverity > 0
}

// IsClean returns true if the audit found no issues at all.
func (r *Result) IsClean() bool {
	return r.Summary.TotalIssues == 0
}

// String returns a human-readable summary of the audit results.
//
// Example output:
//
//	Audit Results: 5 issues (2 high severity)
func (r *Result) String() string {
	return fmt.Sprintf(
		"Audit Results: %d issues (%d high severity)",
		r.Summary.TotalIssues,
		r.Summary.HighSeverity,
	)
}

// FilterBySeverity returns a new slice containing only issues with the
// specified severity.
//
//	errors := result.FilterBySeverity(types.Severity_ERROR)
//	for _, issue := range errors {
//	    fmt.Printf("ERROR: %s\n", issue.Message)
//	}
func (r *Result) FilterBySeverity(severity types.Severity) []*types.Issue {
	filtered := make([]*types.Issue, 0)
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// FilterByCode returns a new slice containing only issues with the
// specified code.
//
//	parseFailures := result.FilterByCode("PARSE_ERROR")
func (r *Result) FilterByCode(code string) []*types.Issue {
	filtered := make([]*types.Issue, 0)
	for _, issue := range r.Issues {
		if issue.Code == code {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// FilterByQuery returns a new slice containing only issues for the
// query at the given index.
func (r *Result) FilterByQuery(queryIndex int) []*types.Issue {
	filtered := make([]*types.Issue, 0)
	for _, issue := range r.Issues {
		if issue.QueryIndex == queryIndex {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
