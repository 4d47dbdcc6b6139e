package queryast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/sql-auditor/pkg/types"
)

func parsePG(t *testing.T, query string) *Query {
	t.Helper()
	q, err := Parse(query, types.Dialect_POSTGRES)
	require.NoError(t, err)
	return q
}

func TestPostgresSimpleSelect(t *testing.T) {
	q := parsePG(t, "SELECT id, email FROM users WHERE id = 1;")

	tables := q.ReferencedTables()
	require.Len(t, tables, 1)
	assert.Equal(t, "users", tables[0].Name)

	assert.True(t, q.HasWhere())
	require.NotEmpty(t, q.WhereColumns())
	assert.Equal(t, "id", q.WhereColumns()[0].Name)

	assert.Zero(t, q.SelectStars())
	assert.Empty(t, q.Joins())
	assert.False(t, q.IsDistinct())
	assert.Zero(t, q.SubqueryCount())
}

func TestPostgresSelectStar(t *testing.T) {
	q := parsePG(t, "SELECT * FROM users;")
	assert.Equal(t, 1, q.SelectStars())
	assert.False(t, q.HasWhere())

	q = parsePG(t, "SELECT u.* FROM users u;")
	assert.Equal(t, 1, q.SelectStars())
}

func TestPostgresJoinWithCondition(t *testing.T) {
	q := parsePG(t, "SELECT o.id FROM orders o JOIN users u ON u.id = o.user_id;")

	tables := q.ReferencedTables()
	require.Len(t, tables, 2)
	assert.Equal(t, "orders", tables[0].Name, "first FROM table is primary")
	assert.Equal(t, "users", tables[1].Name)

	aliases := q.TableAliases()
	assert.Equal(t, "orders", aliases["o"])
	assert.Equal(t, "users", aliases["u"])
	assert.Equal(t, "orders", aliases["orders"], "identity entries present")

	joins := q.Joins()
	require.Len(t, joins, 1)
	assert.Equal(t, "users", joins[0].Table)
	assert.Equal(t, "u", joins[0].Alias)
	assert.True(t, joins[0].HasCondition)
	assert.False(t, joins[0].Cross)

	var names []string
	for _, col := range joins[0].Columns {
		names = append(names, col.String())
	}
	assert.ElementsMatch(t, []string{"u.id", "o.user_id"}, names)
}

func TestPostgresJoinChain(t *testing.T) {
	q := parsePG(t, "SELECT a.x FROM a JOIN b ON b.a_id = a.id LEFT JOIN c cc ON cc.b_id = b.id;")

	var names []string
	for _, table := range q.ReferencedTables() {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	joins := q.Joins()
	require.Len(t, joins, 2)
	assert.Equal(t, "b", joins[0].Table)
	assert.True(t, joins[0].HasCondition)
	assert.Equal(t, "c", joins[1].Table)
	assert.Equal(t, "cc", joins[1].Alias)
	assert.True(t, joins[1].HasCondition)
	assert.Equal(t, "c", q.ResolveTable("cc"))
}

func TestPostgresJoinUsing(t *testing.T) {
	q := parsePG(t, "SELECT a.x FROM a JOIN b USING (id);")

	joins := q.Joins()
	require.Len(t, joins, 1)
	assert.True(t, joins[0].HasCondition)
	require.Len(t, joins[0].Columns, 1)
	assert.Equal(t, "id", joins[0].Columns[0].Name)
	assert.Empty(t, joins[0].Columns[0].Table)
}

func TestPostgresCrossJoin(t *testing.T) {
	q := parsePG(t, "SELECT * FROM t1 CROSS JOIN t2;")

	joins := q.Joins()
	require.Len(t, joins, 1)
	assert.Equal(t, "t2", joins[0].Table)
	assert.True(t, joins[0].Cross)
	assert.False(t, joins[0].HasCondition)
}

func TestPostgresCommaSeparatedTablesAreNotJoins(t *testing.T) {
	q := parsePG(t, "SELECT a.x, b.y FROM a, b WHERE a.id = b.a_id;")

	require.Len(t, q.ReferencedTables(), 2)
	assert.Empty(t, q.Joins())
}

func TestPostgresOrderGroupDistinct(t *testing.T) {
	q := parsePG(t, "SELECT DISTINCT status FROM orders GROUP BY status ORDER BY created_at DESC;")

	assert.True(t, q.IsDistinct())

	require.NotEmpty(t, q.OrderByColumns())
	assert.Equal(t, "created_at", q.OrderByColumns()[0].Name)

	require.NotEmpty(t, q.GroupByColumns())
	assert.Equal(t, "status", q.GroupByColumns()[0].Name)
}

func TestPostgresLike(t *testing.T) {
	q := parsePG(t, "SELECT name FROM users WHERE name LIKE '%smith';")

	likes := q.Likes()
	require.Len(t, likes, 1)
	assert.True(t, likes[0].HasOperand)
	assert.Equal(t, "name", likes[0].Operand.Name)
	assert.Equal(t, "%smith", likes[0].Pattern)
}

func TestPostgresAggregates(t *testing.T) {
	q := parsePG(t, "SELECT status, count(*), max(total) FROM orders GROUP BY status;")

	assert.ElementsMatch(t, []string{"count", "max"}, q.Aggregates())
}

func TestPostgresSubqueryCount(t *testing.T) {
	q := parsePG(t, "SELECT id FROM users WHERE id IN (SELECT user_id FROM orders);")

	assert.Equal(t, 1, q.SubqueryCount())

	// The subquery's tables are part of the referenced set.
	var names []string
	for _, table := range q.ReferencedTables() {
		names = append(names, table.Name)
	}
	assert.Contains(t, names, "orders")
}

func TestPostgresWhereColumnsIncludeSubqueryColumns(t *testing.T) {
	q := parsePG(t, "SELECT id FROM users u WHERE EXISTS (SELECT 1 FROM orders o WHERE o.user_id = u.id);")

	assert.True(t, q.HasWhere())
	var names []string
	for _, col := range q.WhereColumns() {
		names = append(names, col.String())
	}
	assert.Contains(t, names, "o.user_id")
	assert.Contains(t, names, "u.id")
}

func TestPostgresParseError(t *testing.T) {
	_, err := Parse("SELEC nonsense FROM FROM;", types.Dialect_POSTGRES)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, types.Dialect_POSTGRES, parseErr.Dialect)
}

func TestUnsupportedDialect(t *testing.T) {
	_, err := Parse("SELECT 1;", types.Dialect_DIALECT_UNSPECIFIED)
	assert.Error(t, err)
}
