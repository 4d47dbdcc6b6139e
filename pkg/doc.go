// Package pkg provides static SQL performance auditing for Go applications.
//
// SQL Auditor analyzes SQL queries against a declared schema and reports
// performance anti-patterns, a heuristic relative cost score, and
// recommended indexes, for a postgres-like and a sqlite-like dialect.
//
// # Package Structure
//
// The pkg directory contains several specialized packages:
//
//   - auditor: High-level API running the full audit pipeline (recommended starting point)
//   - rules: The fixed, ordered set of anti-pattern detectors
//   - cost: Heuristic cost scoring and improvement estimates
//   - advisor: Index recommendation engine
//   - schema: Schema DDL extraction (tables, columns, row-count hints)
//   - queryast: Dialect-neutral query view over the parsed syntax tree
//   - pgparser: ANTLR-based PostgreSQL parser frontend
//   - sqliteparser: SQLite parser frontend
//   - types: Core type definitions and data structures
//   - config: Optional rule-level configuration
//   - logger: Logging abstraction layer
//
// # Getting Started
//
// For most use cases, start with the auditor package:
//
//	import (
//	    "github.com/nsxbet/sql-auditor/pkg/auditor"
//	    "github.com/nsxbet/sql-auditor/pkg/types"
//	)
//
//	func main() {
//	    a := auditor.New(types.Dialect_POSTGRES)
//	    result, err := a.Audit(context.Background(), schemaDDL, queries)
//	    // Process result.Summary, result.Issues, result.Indexes...
//	}
//
// # Failure Policy
//
// No input condition is fatal to an audit:
//
//   - An unparsable schema degrades to "no schema knowledge".
//   - An unparsable query degrades to a single PARSE_ERROR issue for that
//     query; other queries are unaffected.
//   - A detector hitting an unexpected syntax-tree shape contributes zero
//     issues rather than failing the audit.
//
// # Thread Safety
//
// All public APIs are safe for concurrent use by multiple goroutines.
// Auditor instances can be reused across multiple audit operations, and
// context cancellation is checked between queries.
package pkg
