// Package sqliteparser provides the SQLite parser frontend.
//
// It wraps the rqlite SQL parser to provide consistent parsing and error
// reporting for the sqlite-like dialect of the audit pipeline.
package sqliteparser

import (
	"fmt"
	"io"
	"strings"

	sqlparser "github.com/rqlite/sql"
)

// SyntaxError represents a SQL syntax error reported by the SQLite parser.
type SyntaxError struct {
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// ParseSQLite parses a single SQLite statement and returns its AST.
func ParseSQLite(sql string) (sqlparser.Statement, error) {
	p := sqlparser.NewParser(strings.NewReader(sql))
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, &SyntaxError{Message: err.Error()}
	}
	return stmt, nil
}

// ParseSQLiteScript parses a multi-statement SQLite script (such as schema
// DDL) and returns the statements that parsed successfully. Statements the
// parser rejects are dropped; a nil slice with a non-nil error is returned
// only when nothing could be read at all.
func ParseSQLiteScript(sql string) ([]sqlparser.Statement, error) {
	p := sqlparser.NewParser(strings.NewReader(sql))

	var stmts []sqlparser.Statement
	for {
		stmt, err := p.ParseStatement()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(stmts) == 0 {
				return nil, &SyntaxError{Message: err.Error()}
			}
			// A later statement failed; keep what parsed.
			break
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
