package queryast

import (
	"strings"

	"github.com/antlr4-go/antlr/v4"
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/sql-auditor/pkg/pgparser"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

// parsePostgres builds the normalized query view from the ANTLR parse
// tree of the postgres-like dialect.
func parsePostgres(query string) (*Query, error) {
	result, err := pgparser.ParsePostgreSQL(query)
	if err != nil {
		return nil, &ParseError{Dialect: types.Dialect_POSTGRES, Err: err}
	}

	l := &pgListener{q: newQuery(query, types.Dialect_POSTGRES)}
	antlr.ParseTreeWalkerDefault.Walk(l, result.Tree)
	return l.q, nil
}

// pgListener walks the full parse tree once and fills in the Query.
// From clauses are walked manually (walkFromClause) so that join
// structure is preserved; everything else is collected through listener
// callbacks.
type pgListener struct {
	*parser.BasePostgreSQLParserListener

	q *Query
}

func (l *pgListener) EnterSimple_select_pramary(ctx *parser.Simple_select_pramaryContext) {
	if ctx.From_clause() != nil {
		l.walkFromClause(ctx.From_clause())
	}
}

func (l *pgListener) EnterWhere_clause(ctx *parser.Where_clauseContext) {
	l.q.hasWhere = true
	if hasAncestorWhere(ctx.GetParent()) {
		return
	}
	l.q.whereColumns = append(l.q.whereColumns, collectColumnrefs(ctx)...)
}

func (l *pgListener) EnterSortby(ctx *parser.SortbyContext) {
	l.q.orderColumns = append(l.q.orderColumns, collectColumnrefs(ctx)...)
}

func (l *pgListener) EnterGroup_clause(ctx *parser.Group_clauseContext) {
	l.q.groupColumns = append(l.q.groupColumns, collectColumnrefs(ctx)...)
}

func (l *pgListener) EnterDistinct_clause(_ *parser.Distinct_clauseContext) {
	l.q.distinct = true
}

func (l *pgListener) EnterTarget_star(_ *parser.Target_starContext) {
	l.q.selectStars++
}

func (l *pgListener) EnterColumnref(ctx *parser.ColumnrefContext) {
	parts := columnrefParts(ctx)
	if len(parts) > 0 && parts[len(parts)-1] == "*" {
		// t.* counts as a star projection, not a column reference.
		l.q.selectStars++
		return
	}
	if ref, ok := columnRefFromParts(parts); ok {
		l.q.allColumns = append(l.q.allColumns, ref)
	}
}

func (l *pgListener) EnterFunc_application(ctx *parser.Func_applicationContext) {
	if ctx.Func_name() == nil {
		return
	}
	name := strings.ToLower(ctx.Func_name().GetText())
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if aggregateFuncs[name] {
		l.q.aggregates = append(l.q.aggregates, name)
	}
}

func (l *pgListener) EnterA_expr_like(ctx *parser.A_expr_likeContext) {
	if ctx.LIKE() == nil && ctx.ILIKE() == nil {
		return
	}
	ops := ctx.AllA_expr_qual_op()
	if len(ops) < 2 {
		return
	}

	like := Like{}
	if cols := collectColumnrefs(ops[0]); len(cols) > 0 {
		like.Operand = cols[0]
		like.HasOperand = true
	}
	like.Pattern = firstStringConstant(ops[1])
	l.q.likes = append(l.q.likes, like)
}

func (l *pgListener) EnterSelect_with_parens(ctx *parser.Select_with_parensContext) {
	switch parent := ctx.GetParent().(type) {
	case *parser.SelectstmtContext:
		if isTopLevel(parent.GetParent()) {
			return
		}
	case *parser.Select_with_parensContext:
		// Extra parentheses around the same subquery.
		return
	}
	l.q.subqueries++
}

// walkFromClause records the referenced tables and joins of one FROM
// clause. Comma-separated table references are plain table references,
// not joins.
func (l *pgListener) walkFromClause(ctx parser.IFrom_clauseContext) {
	for _, child := range ctx.GetChildren() {
		fromList, ok := child.(parser.IFrom_listContext)
		if !ok {
			continue
		}
		for _, item := range fromList.GetChildren() {
			if ref, ok := item.(parser.ITable_refContext); ok {
				l.walkTableRef(ref)
			}
		}
	}
}

// walkTableRef walks one table_ref subtree: a base relation with optional
// alias, followed by zero or more joined_table steps. It returns the index
// of the base table in q.tables, or -1 when the base is not a plain
// relation (derived table, function source).
func (l *pgListener) walkTableRef(ctx parser.ITable_refContext) int {
	base := -1

	for _, child := range ctx.GetChildren() {
		switch c := child.(type) {
		case parser.IRelation_exprContext:
			name := relationName(c)
			if name == "" {
				continue
			}
			idx := l.q.addTable(name)
			if base < 0 {
				base = idx
			}

		case parser.ITable_refContext:
			// Parenthesized table reference.
			childBase := l.walkTableRef(c)
			if base < 0 {
				base = childBase
			}

		case parser.IJoined_tableContext:
			l.walkJoinedTable(c)

		case parser.IOpt_alias_clauseContext:
			l.attachAlias(base, firstTableAlias(c))

		case parser.IAlias_clauseContext:
			l.attachAlias(base, firstColid(c))
		}
	}
	return base
}

// walkJoinedTable records one join step. The joined side is a nested
// table_ref (walked first, so its alias is already attached when the Join
// is built); CROSS and the ON/USING qualifier are direct children.
func (l *pgListener) walkJoinedTable(ctx parser.IJoined_tableContext) {
	joinIdx := -1
	cross := false

	for _, child := range ctx.GetChildren() {
		switch c := child.(type) {
		case antlr.TerminalNode:
			if strings.EqualFold(c.GetText(), "CROSS") {
				cross = true
			}

		case parser.ITable_refContext:
			childBase := l.walkTableRef(c)
			if childBase >= 0 {
				t := l.q.tables[childBase]
				l.q.joins = append(l.q.joins, Join{
					Table: t.Name,
					Alias: t.Alias,
					Cross: cross,
				})
				joinIdx = len(l.q.joins) - 1
			}

		case parser.IJoin_qualContext:
			if joinIdx >= 0 {
				join := &l.q.joins[joinIdx]
				join.HasCondition = true
				join.Columns = append(join.Columns, joinQualColumns(c)...)
			}
		}
	}
}

func (l *pgListener) attachAlias(tableIdx int, alias string) {
	if alias == "" || tableIdx < 0 {
		return
	}
	l.q.setAlias(tableIdx, alias)
}

// relationName returns the written table name of a relation_expr,
// without any schema qualifier.
func relationName(ctx parser.IRelation_exprContext) string {
	if ctx == nil || ctx.Qualified_name() == nil {
		return ""
	}
	parts := pgparser.QualifiedNameParts(ctx.Qualified_name())
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// joinQualColumns extracts the column references of an ON or USING join
// condition. USING names are unqualified columns of both join sides.
func joinQualColumns(ctx parser.IJoin_qualContext) []ColumnRef {
	for _, child := range ctx.GetChildren() {
		if t, ok := child.(antlr.TerminalNode); ok && strings.EqualFold(t.GetText(), "USING") {
			var cols []ColumnRef
			for _, name := range collectColids(ctx) {
				cols = append(cols, ColumnRef{Name: name})
			}
			return cols
		}
	}
	return collectColumnrefs(ctx)
}

func columnrefParts(ctx parser.IColumnrefContext) []string {
	if ctx == nil {
		return nil
	}
	parts := []string{pgparser.ColidText(ctx.Colid())}
	if ctx.Indirection() != nil {
		parts = append(parts, pgparser.IndirectionParts(ctx.Indirection())...)
	}
	return parts
}

// columnRefFromParts converts written name parts into a ColumnRef. Star
// references and empty parts do not form columns.
func columnRefFromParts(parts []string) (ColumnRef, bool) {
	if len(parts) == 0 || parts[len(parts)-1] == "*" || parts[len(parts)-1] == "" {
		return ColumnRef{}, false
	}
	ref := ColumnRef{Name: parts[len(parts)-1]}
	if len(parts) > 1 {
		ref.Table = parts[len(parts)-2]
	}
	return ref, true
}

func hasAncestorWhere(tree antlr.Tree) bool {
	for tree != nil {
		if _, ok := tree.(*parser.Where_clauseContext); ok {
			return true
		}
		tree = tree.GetParent()
	}
	return false
}

// isTopLevel reports whether the context sits directly under the
// statement root of the parse tree.
func isTopLevel(ctx antlr.Tree) bool {
	if ctx == nil {
		return true
	}
	switch ctx := ctx.(type) {
	case *parser.RootContext, *parser.StmtblockContext:
		return true
	case *parser.StmtmultiContext:
		return isTopLevel(ctx.GetParent())
	case *parser.StmtContext:
		return isTopLevel(ctx.GetParent())
	default:
		return false
	}
}

// columnrefCollector gathers column references under one subtree.
type columnrefCollector struct {
	*parser.BasePostgreSQLParserListener

	cols []ColumnRef
}

func (c *columnrefCollector) EnterColumnref(ctx *parser.ColumnrefContext) {
	if ref, ok := columnRefFromParts(columnrefParts(ctx)); ok {
		c.cols = append(c.cols, ref)
	}
}

func collectColumnrefs(tree antlr.Tree) []ColumnRef {
	c := &columnrefCollector{}
	antlr.ParseTreeWalkerDefault.Walk(c, tree)
	return c.cols
}

// colidCollector gathers bare identifiers under one subtree (USING
// lists, alias clauses).
type colidCollector struct {
	*parser.BasePostgreSQLParserListener

	names []string
}

func (c *colidCollector) EnterColid(ctx *parser.ColidContext) {
	if name := pgparser.IdentifierText(ctx.GetText()); name != "" {
		c.names = append(c.names, name)
	}
}

func collectColids(tree antlr.Tree) []string {
	c := &colidCollector{}
	antlr.ParseTreeWalkerDefault.Walk(c, tree)
	return c.names
}

// sconstCollector captures the first string constant under one subtree.
type sconstCollector struct {
	*parser.BasePostgreSQLParserListener

	text  string
	found bool
}

func (c *sconstCollector) EnterSconst(ctx *parser.SconstContext) {
	if !c.found {
		c.text = pgparser.StringConstantText(ctx)
		c.found = true
	}
}

func firstStringConstant(tree antlr.Tree) string {
	c := &sconstCollector{}
	antlr.ParseTreeWalkerDefault.Walk(c, tree)
	return c.text
}

// firstColid returns the first identifier of an alias clause subtree,
// which is the table alias.
func firstColid(tree antlr.Tree) string {
	names := collectColids(tree)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// tableAliasCollector captures the table_alias of an opt_alias_clause
// subtree. The clause's optional column-alias list is a name_list of
// colids, so colid collection cannot be used here.
type tableAliasCollector struct {
	*parser.BasePostgreSQLParserListener

	alias string
}

func (c *tableAliasCollector) EnterTable_alias(ctx *parser.Table_aliasContext) {
	if c.alias == "" {
		c.alias = pgparser.IdentifierText(ctx.GetText())
	}
}

func firstTableAlias(tree antlr.Tree) string {
	c := &tableAliasCollector{}
	antlr.ParseTreeWalkerDefault.Walk(c, tree)
	return c.alias
}
