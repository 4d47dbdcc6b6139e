// Package schema extracts table metadata from schema DDL.
//
// Only CREATE TABLE statements contribute; all other statements are
// ignored. Extraction never fails: DDL the dialect parser rejects yields
// an empty TableInfo and the audit proceeds without schema knowledge.
package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antlr4-go/antlr/v4"
	parser "github.com/bytebase/parser/postgresql"
	sqlparser "github.com/rqlite/sql"

	"github.com/nsxbet/sql-auditor/pkg/pgparser"
	"github.com/nsxbet/sql-auditor/pkg/sqliteparser"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Extract parses schema DDL in the given dialect and returns the
// declared tables, their columns, and any row-count hints. Table names
// keep their declared case.
func Extract(ddl string, dialect types.Dialect) types.TableInfo {
	info := types.NewTableInfo()
	if strings.TrimSpace(ddl) == "" {
		return info
	}

	switch dialect {
	case types.Dialect_POSTGRES:
		extractPostgres(ddl, &info)
	case types.Dialect_SQLITE:
		extractSQLite(ddl, &info)
	}

	scanRowHints(ddl, &info)
	return info
}

func extractPostgres(ddl string, info *types.TableInfo) {
	result, err := pgparser.ParsePostgreSQL(ddl)
	if err != nil {
		return
	}

	collector := &createTableCollector{info: info}
	antlr.ParseTreeWalkerDefault.Walk(collector, result.Tree)
}

// createTableCollector walks CREATE TABLE statements of a postgres DDL
// script.
type createTableCollector struct {
	*parser.BasePostgreSQLParserListener

	info *types.TableInfo
}

func (c *createTableCollector) EnterCreatestmt(ctx *parser.CreatestmtContext) {
	qualifiedNames := ctx.AllQualified_name()
	if len(qualifiedNames) == 0 {
		return
	}

	parts := pgparser.QualifiedNameParts(qualifiedNames[0])
	if len(parts) == 0 {
		return
	}
	tableName := parts[len(parts)-1]
	if tableName == "" {
		return
	}

	var columns []types.ColumnInfo
	if ctx.Opttableelementlist() != nil && ctx.Opttableelementlist().Tableelementlist() != nil {
		allElements := ctx.Opttableelementlist().Tableelementlist().AllTableelement()
		for _, elem := range allElements {
			if elem.ColumnDef() == nil || elem.ColumnDef().Colid() == nil {
				continue
			}
			col := types.ColumnInfo{
				Name: pgparser.ColidText(elem.ColumnDef().Colid()),
			}
			if elem.ColumnDef().Typename() != nil {
				col.Type = elem.ColumnDef().Typename().GetText()
			}
			columns = append(columns, col)
		}
	}

	c.info.Tables[tableName] = columns
}

func extractSQLite(ddl string, info *types.TableInfo) {
	stmts, err := sqliteparser.ParseSQLiteScript(ddl)
	if err != nil {
		return
	}

	for _, stmt := range stmts {
		create, ok := stmt.(*sqlparser.CreateTableStatement)
		if !ok || create.Name == nil {
			continue
		}

		var columns []types.ColumnInfo
		for _, def := range create.Columns {
			if def.Name == nil {
				continue
			}
			col := types.ColumnInfo{Name: def.Name.Name}
			if def.Type != nil && def.Type.Name != nil {
				col.Type = def.Type.Name.Name
			}
			columns = append(columns, col)
		}
		info.Tables[create.Name.Name] = columns
	}
}

var (
	rowHintRe     = regexp.MustCompile(`(?i)--\s*@rows\s*=\s*(\d+)`)
	createTableRe = regexp.MustCompile(`(?i)create\s+table\s+(\w+)`)
)

// scanRowHints scans DDL comment lines for `-- @rows=N` hints and
// attaches each to the nearest CREATE TABLE within the five lines above
// it. Table matching is case-insensitive; hints are stored under the
// declared-case name. Hints that match no extracted table are dropped.
func scanRowHints(ddl string, info *types.TableInfo) {
	lines := strings.Split(ddl, "\n")
	for i, line := range lines {
		m := rowHintRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}

		for j := i; j >= 0 && j >= i-5; j-- {
			tm := createTableRe.FindStringSubmatch(lines[j])
			if tm == nil {
				continue
			}
			hinted := strings.ToLower(tm[1])
			for declared := range info.Tables {
				if strings.ToLower(declared) == hinted {
					info.RowHints[declared] = rows
					break
				}
			}
			break
		}
	}
}
