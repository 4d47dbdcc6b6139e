package queryast

import (
	"strings"

	sqlparser "github.com/rqlite/sql"

	"github.com/nsxbet/sql-auditor/pkg/sqliteparser"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// parseSQLite builds the normalized query view from the rqlite AST of
// the sqlite-like dialect.
func parseSQLite(query string) (*Query, error) {
	stmt, err := sqliteparser.ParseSQLite(query)
	if err != nil {
		return nil, &ParseError{Dialect: types.Dialect_SQLITE, Err: err}
	}

	b := &sqliteBuilder{q: newQuery(query, types.Dialect_SQLITE)}
	if sel, ok := stmt.(*sqlparser.SelectStatement); ok {
		b.walkSelect(sel, true)
	}
	return b.q, nil
}

type sqliteBuilder struct {
	q *Query
}

func (b *sqliteBuilder) walkSelect(sel *sqlparser.SelectStatement, top bool) {
	if sel == nil {
		return
	}
	if !top {
		b.q.subqueries++
	}
	if sel.Distinct.IsValid() {
		b.q.distinct = true
	}

	b.walkSource(sel.Source)

	for _, col := range sel.Columns {
		if col.Star.IsValid() {
			b.q.selectStars++
			continue
		}
		b.walkExpr(col.Expr, nil)
	}

	if sel.WhereExpr != nil {
		b.q.hasWhere = true
		b.walkExpr(sel.WhereExpr, &b.q.whereColumns)
	}
	for _, expr := range sel.GroupByExprs {
		b.walkExpr(expr, &b.q.groupColumns)
	}
	b.walkExpr(sel.HavingExpr, nil)
	for _, term := range sel.OrderingTerms {
		b.walkExpr(term.X, &b.q.orderColumns)
	}
	b.walkExpr(sel.LimitExpr, nil)
	b.walkExpr(sel.OffsetExpr, nil)
}

// walkSource records the tables and joins of a FROM source tree. It
// returns the index of the leftmost base table, or -1 when there is
// none. Comma-separated sources are plain table references, not joins.
func (b *sqliteBuilder) walkSource(src sqlparser.Source) int {
	switch s := src.(type) {
	case *sqlparser.QualifiedTableName:
		idx := b.q.addTable(s.Name.Name)
		if s.Alias != nil {
			b.q.setAlias(idx, s.Alias.Name)
		}
		return idx

	case *sqlparser.ParenSource:
		idx := b.walkSource(s.X)
		if s.Alias != nil {
			b.q.setAlias(idx, s.Alias.Name)
		}
		return idx

	case *sqlparser.SelectStatement:
		b.walkSelect(s, false)
		return -1

	case *sqlparser.JoinClause:
		base := b.walkSource(s.X)
		operandIdx := b.walkSource(s.Y)

		comma := s.Operator != nil && s.Operator.Comma.IsValid()
		if operandIdx >= 0 && !comma {
			t := b.q.tables[operandIdx]
			join := Join{
				Table: t.Name,
				Alias: t.Alias,
				Cross: s.Operator != nil && s.Operator.Cross.IsValid(),
			}
			switch c := s.Constraint.(type) {
			case *sqlparser.OnConstraint:
				join.HasCondition = true
				var cols []ColumnRef
				b.walkExpr(c.X, &cols)
				join.Columns = cols
			case *sqlparser.UsingConstraint:
				join.HasCondition = true
				for _, col := range c.Columns {
					join.Columns = append(join.Columns, ColumnRef{Name: col.Name})
				}
			}
			b.q.joins = append(b.q.joins, join)
		}

		if base >= 0 {
			return base
		}
		return operandIdx
	}
	return -1
}

// walkExpr collects column references into allColumns and, when sink is
// non-nil, into the clause-specific sink. Literals contribute nothing;
// functions, IN lists, BETWEEN bounds and subqueries are recursed into.
// Unrecognized expression shapes are skipped.
func (b *sqliteBuilder) walkExpr(expr sqlparser.Expr, sink *[]ColumnRef) {
	switch e := expr.(type) {
	case nil:
		return

	case *sqlparser.Ident:
		b.addColumn(ColumnRef{Name: e.Name}, sink)

	case *sqlparser.QualifiedRef:
		if e.Star.IsValid() {
			b.q.selectStars++
			return
		}
		ref := ColumnRef{Name: e.Column.Name}
		if e.Table != nil {
			ref.Table = e.Table.Name
		}
		b.addColumn(ref, sink)

	case *sqlparser.BinaryExpr:
		if e.Op == sqlparser.LIKE {
			b.recordLike(e)
		}
		b.walkExpr(e.X, sink)
		b.walkExpr(e.Y, sink)

	case *sqlparser.UnaryExpr:
		b.walkExpr(e.X, sink)

	case *sqlparser.ParenExpr:
		b.walkExpr(e.X, sink)

	case *sqlparser.ExprList:
		for _, x := range e.Exprs {
			b.walkExpr(x, sink)
		}

	case *sqlparser.Range:
		b.walkExpr(e.X, sink)
		b.walkExpr(e.Y, sink)

	case *sqlparser.Call:
		if e.Name != nil {
			name := strings.ToLower(e.Name.Name)
			if aggregateFuncs[name] {
				b.q.aggregates = append(b.q.aggregates, name)
			}
		}
		for _, arg := range e.Args {
			b.walkExpr(arg, sink)
		}

	case *sqlparser.CastExpr:
		b.walkExpr(e.X, sink)

	case *sqlparser.CaseExpr:
		b.walkExpr(e.Operand, sink)
		for _, blk := range e.Blocks {
			b.walkExpr(blk.Condition, sink)
			b.walkExpr(blk.Body, sink)
		}
		b.walkExpr(e.ElseExpr, sink)

	case *sqlparser.Exists:
		b.walkSelect(e.Select, false)
	}
}

func (b *sqliteBuilder) addColumn(ref ColumnRef, sink *[]ColumnRef) {
	b.q.allColumns = append(b.q.allColumns, ref)
	if sink != nil {
		*sink = append(*sink, ref)
	}
}

func (b *sqliteBuilder) recordLike(e *sqlparser.BinaryExpr) {
	like := Like{}
	if ref, ok := firstExprColumn(e.X); ok {
		like.Operand = ref
		like.HasOperand = true
	}
	if lit, ok := unwrapParens(e.Y).(*sqlparser.StringLit); ok {
		like.Pattern = lit.Value
	}
	b.q.likes = append(b.q.likes, like)
}

// firstExprColumn returns the first column reference inside an
// expression, without recording it anywhere.
func firstExprColumn(expr sqlparser.Expr) (ColumnRef, bool) {
	switch e := expr.(type) {
	case *sqlparser.Ident:
		return ColumnRef{Name: e.Name}, true
	case *sqlparser.QualifiedRef:
		if e.Star.IsValid() || e.Column == nil {
			return ColumnRef{}, false
		}
		ref := ColumnRef{Name: e.Column.Name}
		if e.Table != nil {
			ref.Table = e.Table.Name
		}
		return ref, true
	case *sqlparser.ParenExpr:
		return firstExprColumn(e.X)
	case *sqlparser.UnaryExpr:
		return firstExprColumn(e.X)
	case *sqlparser.BinaryExpr:
		if ref, ok := firstExprColumn(e.X); ok {
			return ref, true
		}
		return firstExprColumn(e.Y)
	case *sqlparser.Call:
		for _, arg := range e.Args {
			if ref, ok := firstExprColumn(arg); ok {
				return ref, true
			}
		}
	}
	return ColumnRef{}, false
}

func unwrapParens(expr sqlparser.Expr) sqlparser.Expr {
	for {
		p, ok := expr.(*sqlparser.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}
