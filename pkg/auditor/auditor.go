// Package auditor provides a high-level API for static SQL performance
// audits.
//
// An audit analyzes a set of queries against a declared schema and
// produces detected anti-pattern issues, a heuristic cost estimate, and
// recommended indexes.
//
// # Quick Start
//
//	// Create an auditor for the postgres-like dialect
//	a := auditor.New(types.Dialect_POSTGRES)
//
//	// Audit queries against a schema
//	result, err := a.Audit(context.Background(), schemaDDL, queries)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Check results
//	fmt.Printf("Found %d issues\n", result.Summary.TotalIssues)
//	for _, issue := range result.Issues {
//	    fmt.Printf("[%s] %s\n", issue.Severity, issue.Message)
//	}
//
// # Using Custom Configuration
//
//	a := auditor.New(types.Dialect_POSTGRES)
//	if err := a.WithConfig("audit-rules.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := a.Audit(ctx, schemaDDL, queries)
package auditor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nsxbet/sql-auditor/pkg/advisor"
	"github.com/nsxbet/sql-auditor/pkg/config"
	"github.com/nsxbet/sql-auditor/pkg/cost"
	"github.com/nsxbet/sql-auditor/pkg/logger"
	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/rules"
	"github.com/nsxbet/sql-auditor/pkg/schema"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Auditor runs the audit pipeline for one dialect.
//
// Auditor is safe for concurrent use by multiple goroutines and can be
// reused across audits.
type Auditor struct {
	config  *config.Config
	dialect types.Dialect
	log     logger.Interface
}

// New creates a new Auditor for the specified SQL dialect with the
// default configuration (all detectors at built-in severity).
//
// Example:
//
//	a := auditor.New(types.Dialect_SQLITE)
//	result, err := a.Audit(ctx, schemaDDL, queries)
func New(dialect types.Dialect) *Auditor {
	return &Auditor{
		config:  config.DefaultConfig("default"),
		dialect: dialect,
		log:     logger.New(),
	}
}

// WithConfig loads rule configuration from a YAML or JSON file.
// This replaces the current configuration.
//
// Returns an error if the file cannot be read or parsed.
func (a *Auditor) WithConfig(filename string) error {
	cfg, err := config.LoadFromFile(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to load config from %s", filename)
	}
	a.config = cfg
	return nil
}

// WithConfigObject sets a custom configuration object directly.
// This replaces the current configuration.
//
// Returns the Auditor for method chaining.
func (a *Auditor) WithConfigObject(cfg *config.Config) *Auditor {
	a.config = cfg
	return a
}

// WithLogger sets a custom logger.
//
// Returns the Auditor for method chaining.
func (a *Auditor) WithLogger(log logger.Interface) *Auditor {
	a.log = log
	return a
}

// Audit analyzes the queries against the schema DDL and returns the
// collected issues, index suggestions and summary.
//
// No input condition is fatal: unparsable schema DDL degrades to an
// audit without schema knowledge, and an unparsable query degrades to a
// single PARSE_ERROR issue at that query's index while the remaining
// queries are audited normally.
//
// The context supports cancellation between queries; on cancellation
// the partial result gathered so far is returned along with ctx.Err().
func (a *Auditor) Audit(ctx context.Context, schemaDDL string, queries []string) (*Result, error) {
	info := schema.Extract(schemaDDL, a.dialect)
	if info.IsEmpty() && schemaDDL != "" {
		a.log.Warn("schema DDL produced no tables, auditing without schema knowledge",
			"dialect", a.dialect.String())
	}

	var (
		issues           []*types.Issue
		indexes          []*types.IndexSuggestion
		firstImprovement string
	)

	for i, query := range queries {
		select {
		case <-ctx.Done():
			return a.result(issues, indexes, firstImprovement), ctx.Err()
		default:
		}

		q, err := queryast.Parse(query, a.dialect)
		if err != nil {
			a.log.Debug("query failed to parse", "queryIndex", i, logger.Error(err))
			issues = append(issues, parseErrorIssue(query, i, err))
			continue
		}

		issues = append(issues, a.config.Apply(rules.RunAll(q, info, i))...)

		if i == 0 {
			firstImprovement = cost.Estimate(q, info).Improvement
		}

		indexes = append(indexes, advisor.Recommend(q, info, a.dialect)...)
	}

	return a.result(issues, indexes, firstImprovement), nil
}

func (a *Auditor) result(issues []*types.Issue, indexes []*types.IndexSuggestion, improvement string) *Result {
	return &Result{
		Issues:  issues,
		Indexes: indexes,
		Summary: summarize(issues, improvement),
	}
}

// parseErrorIssue builds the synthetic issue recorded for an unparsable
// query.
func parseErrorIssue(query string, queryIndex int, err error) *types.Issue {
	cause := err
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		cause = unwrapped
	}
	return &types.Issue{
		Code:       "PARSE_ERROR",
		Severity:   types.Severity_ERROR,
		Message:    "Failed to parse query: " + cause.Error(),
		Snippet:    types.Snippet(query),
		QueryIndex: queryIndex,
	}
}

// summarize computes aggregate statistics from the collected issues.
func summarize(issues []*types.Issue, improvement string) types.AuditSummary {
	summary := types.AuditSummary{
		TotalIssues:    len(issues),
		EstImprovement: improvement,
	}
	for _, issue := range issues {
		if issue.Severity == types.Severity_ERROR {
			summary.HighSeverity++
		}
	}
	return summary
}
