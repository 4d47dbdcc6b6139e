// Package types contains the core type definitions shared by the audit
// pipeline: dialects, severities, issues, index suggestions, schema
// metadata, and summary statistics.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dialect represents the SQL dialect an audit targets.
type Dialect int32

const (
	Dialect_DIALECT_UNSPECIFIED Dialect = 0
	Dialect_POSTGRES            Dialect = 1
	Dialect_SQLITE              Dialect = 2
)

func (d Dialect) String() string {
	switch d {
	case Dialect_POSTGRES:
		return "postgres"
	case Dialect_SQLITE:
		return "sqlite"
	default:
		return "unspecified"
	}
}

// ParseDialect converts a dialect name into a Dialect value.
// Recognized names (case-insensitive): "postgres", "postgresql", "sqlite".
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return Dialect_POSTGRES, nil
	case "sqlite", "sqlite3":
		return Dialect_SQLITE, nil
	default:
		return Dialect_DIALECT_UNSPECIFIED, fmt.Errorf("unknown dialect: %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler for Dialect.
func (d *Dialect) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDialect(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler for Dialect.
func (d Dialect) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Severity is the severity level of a detected issue.
type Severity int32

const (
	Severity_SEVERITY_UNSPECIFIED Severity = 0
	Severity_INFO                 Severity = 1
	Severity_WARN                 Severity = 2
	Severity_ERROR                Severity = 3
)

func (s Severity) String() string {
	switch s {
	case Severity_INFO:
		return "info"
	case Severity_WARN:
		return "warn"
	case Severity_ERROR:
		return "error"
	default:
		return "unspecified"
	}
}

// ParseSeverity converts a severity name into a Severity value.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return Severity_INFO, nil
	case "warn", "warning":
		return Severity_WARN, nil
	case "error":
		return Severity_ERROR, nil
	default:
		return Severity_SEVERITY_UNSPECIFIED, fmt.Errorf("unknown severity: %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler for Severity.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON implements json.Marshaler for Severity.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler for Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SnippetLimit is the maximum length of the query snippet attached to an
// issue.
const SnippetLimit = 200

// Snippet truncates a query to SnippetLimit for attachment to an Issue.
func Snippet(query string) string {
	if len(query) > SnippetLimit {
		return query[:SnippetLimit]
	}
	return query
}

// Issue represents one finding produced by a single rule invocation.
// Issues are immutable values.
type Issue struct {
	// Code is the stable issue code (e.g. "R001", "PARSE_ERROR").
	Code string `json:"code"`

	// Severity is info, warn, or error.
	Severity Severity `json:"severity"`

	// Message is the human-readable description of the finding.
	Message string `json:"message"`

	// Snippet is the first 200 bytes of the offending query.
	Snippet string `json:"snippet,omitempty"`

	// Rule is the name of the rule that produced this issue
	// (empty for synthetic issues such as PARSE_ERROR).
	Rule string `json:"rule,omitempty"`

	// QueryIndex is the 0-based index of the query in the audit input.
	QueryIndex int `json:"queryIndex"`
}

// IndexKind is the kind of index a suggestion recommends.
type IndexKind int32

const (
	IndexKind_INDEX_KIND_UNSPECIFIED IndexKind = 0
	IndexKind_BTREE                  IndexKind = 1
	IndexKind_GIN                    IndexKind = 2
)

func (k IndexKind) String() string {
	switch k {
	case IndexKind_BTREE:
		return "btree"
	case IndexKind_GIN:
		return "gin"
	default:
		return "unspecified"
	}
}

// MarshalJSON implements json.Marshaler for IndexKind.
func (k IndexKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// IndexSuggestion is a recommended index for one table.
//
// Two suggestions are considered identical when their table, ordered column
// sequence, and kind all match; the advisor deduplicates on that key.
type IndexSuggestion struct {
	Table               string    `json:"table"`
	Columns             []string  `json:"columns"`
	Kind                IndexKind `json:"type"`
	Rationale           string    `json:"rationale"`
	ExpectedImprovement string    `json:"expectedImprovement,omitempty"`
}

// Key returns the deduplication identity of the suggestion.
func (s *IndexSuggestion) Key() string {
	return s.Table + "\x00" + strings.Join(s.Columns, "\x00") + "\x00" + s.Kind.String()
}

// ColumnInfo describes one column extracted from schema DDL.
type ColumnInfo struct {
	Name string `json:"name"`
	// Type is the declared type text; empty when the DDL omits the type.
	Type string `json:"type,omitempty"`
}

// TableInfo is the read-only schema knowledge for one audit: declared
// tables with their ordered column lists, and optional row-count hints
// parsed from DDL comments. Table names keep the case they were declared
// with. Built once per audit; consumed read-only afterwards.
type TableInfo struct {
	Tables   map[string][]ColumnInfo `json:"tables"`
	RowHints map[string]int64        `json:"rowHints"`
}

// NewTableInfo returns an empty TableInfo ready for population.
func NewTableInfo() TableInfo {
	return TableInfo{
		Tables:   make(map[string][]ColumnInfo),
		RowHints: make(map[string]int64),
	}
}

// IsEmpty reports whether no tables were extracted. Callers treat an empty
// TableInfo as "no schema knowledge", not as an error.
func (t TableInfo) IsEmpty() bool {
	return len(t.Tables) == 0
}

// RowHint returns the row-count hint for a table, if one was declared.
func (t TableInfo) RowHint(table string) (int64, bool) {
	hint, ok := t.RowHints[table]
	return hint, ok
}

// Columns returns the ordered column list for a table, or nil when the
// table is unknown.
func (t TableInfo) Columns(table string) []ColumnInfo {
	return t.Tables[table]
}

// AuditSummary aggregates statistics over all queries in one audit.
type AuditSummary struct {
	// TotalIssues is the count of all issues across all queries.
	TotalIssues int `json:"totalIssues"`

	// HighSeverity is the count of error-severity issues.
	HighSeverity int `json:"highSeverity"`

	// EstImprovement is the cost estimator's improvement text for the
	// first query; empty when there were no queries or the first query
	// failed to parse.
	EstImprovement string `json:"estImprovement,omitempty"`
}
