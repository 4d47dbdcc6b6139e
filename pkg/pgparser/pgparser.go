// Package pgparser provides the PostgreSQL parser frontend.
//
// It wraps the Bytebase PostgreSQL grammar to provide consistent parsing
// and identifier handling for the postgres-like dialect of the audit
// pipeline.
package pgparser

import (
	"fmt"
	"strings"

	"github.com/antlr4-go/antlr/v4"
	parser "github.com/bytebase/parser/postgresql"
)

// ParseResult contains the parsed SQL statement tree and tokens.
type ParseResult struct {
	Tree   antlr.Tree
	Tokens *antlr.CommonTokenStream
}

// SyntaxError represents a SQL syntax error with position information.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// syntaxErrorListener collects the first syntax error seen during parsing.
type syntaxErrorListener struct {
	*antlr.DefaultErrorListener
	err *SyntaxError
}

func (l *syntaxErrorListener) SyntaxError(
	_ antlr.Recognizer,
	_ interface{},
	line, column int,
	msg string,
	_ antlr.RecognitionException,
) {
	if l.err == nil {
		l.err = &SyntaxError{
			Message: msg,
			Line:    line,
			Column:  column,
		}
	}
}

// ParsePostgreSQL parses PostgreSQL SQL text and returns the parse tree.
//
// Example:
//
//	result, err := pgparser.ParsePostgreSQL("SELECT id FROM users WHERE id = 1;")
//	if err != nil {
//	    // Handle syntax error
//	}
//	// Walk result.Tree
func ParsePostgreSQL(sql string) (*ParseResult, error) {
	inputStream := antlr.NewInputStream(sql)
	lexer := parser.NewPostgreSQLLexer(inputStream)

	lexerErrorListener := &syntaxErrorListener{}
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(lexerErrorListener)

	stream := antlr.NewCommonTokenStream(lexer, antlr.TokenDefaultChannel)

	p := parser.NewPostgreSQLParser(stream)
	p.BuildParseTrees = true

	parserErrorListener := &syntaxErrorListener{}
	p.RemoveErrorListeners()
	p.AddErrorListener(parserErrorListener)

	tree := p.Root()

	if lexerErrorListener.err != nil {
		return nil, lexerErrorListener.err
	}
	if parserErrorListener.err != nil {
		return nil, parserErrorListener.err
	}
	if tree == nil {
		return nil, &SyntaxError{Message: "failed to parse SQL statement"}
	}

	return &ParseResult{
		Tree:   tree,
		Tokens: stream,
	}, nil
}

// IdentifierText returns the identifier spelled by raw token text: quoted
// identifiers are unquoted and unescaped, unquoted identifiers keep the
// case they were written with. The audit pipeline matches identifiers
// textually, so no case folding is applied here.
func IdentifierText(text string) string {
	if len(text) > 3 && (text[0] == 'U' || text[0] == 'u') && text[1] == '&' && text[2] == '"' {
		text = text[2:]
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return strings.ReplaceAll(text[1:len(text)-1], `""`, `"`)
	}
	return text
}

// ColidText returns the written identifier text for a column identifier
// context.
func ColidText(ctx parser.IColidContext) string {
	if ctx == nil {
		return ""
	}
	return IdentifierText(ctx.GetText())
}

// QualifiedNameParts splits a qualified name (schema.table, table.column)
// into its written name parts.
func QualifiedNameParts(ctx parser.IQualified_nameContext) []string {
	if ctx == nil {
		return nil
	}

	parts := []string{ColidText(ctx.Colid())}
	if ctx.Indirection() != nil {
		parts = append(parts, IndirectionParts(ctx.Indirection())...)
	}
	return parts
}

// IndirectionParts returns the written name parts of an indirection chain.
// A trailing ".*" yields a "*" part.
func IndirectionParts(ctx parser.IIndirectionContext) []string {
	if ctx == nil {
		return nil
	}

	var parts []string
	for _, el := range ctx.AllIndirection_el() {
		if el.DOT() == nil {
			// Array subscripts and slices carry no name part.
			continue
		}
		if el.STAR() != nil {
			parts = append(parts, "*")
			continue
		}
		if el.Attr_name() != nil && el.Attr_name().Collabel() != nil {
			parts = append(parts, IdentifierText(el.Attr_name().Collabel().GetText()))
		}
	}
	return parts
}

// StringConstantText extracts the value of a string constant context,
// unquoting and unescaping doubled single quotes.
func StringConstantText(ctx parser.ISconstContext) string {
	if ctx == nil {
		return ""
	}
	text := ctx.GetText()
	if len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'' {
		return strings.ReplaceAll(text[1:len(text)-1], "''", "'")
	}
	return text
}
