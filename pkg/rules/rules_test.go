package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/sql-auditor/pkg/queryast"
	"github.com/nsxbet/sql-auditor/pkg/types"
)

func mustParse(t *testing.T, query string) *queryast.Query {
	t.Helper()
	q, err := queryast.Parse(query, types.Dialect_POSTGRES)
	require.NoError(t, err)
	return q
}

func infoWithHint(table string, rows int64) types.TableInfo {
	info := types.NewTableInfo()
	info.Tables[table] = []types.ColumnInfo{{Name: "id", Type: "INTEGER"}}
	info.RowHints[table] = rows
	return info
}

func issueCodes(issues []*types.Issue) []string {
	var codes []string
	for _, issue := range issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

func TestRuleOrder(t *testing.T) {
	rules := All()
	require.Len(t, rules, 10)

	wantOrder := []string{
		"SELECT_STAR",
		"UNUSED_JOIN",
		"CARTESIAN_JOIN",
		"NON_SARGABLE",
		"MISSING_PREDICATE",
		"ORDER_BY_NO_INDEX",
		"DISTINCT_MISUSE",
		"N_PLUS_ONE_PATTERN",
		"LIKE_PREFIX_WILDCARD",
		"AGG_NO_GROUPING_INDEX",
	}
	for i, rule := range rules {
		assert.Equal(t, wantOrder[i], rule.Name())
	}
}

func TestSelectStarRule(t *testing.T) {
	rule := &SelectStarRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT * FROM users;"), info, 3)
	require.Len(t, issues, 1)
	assert.Equal(t, "R001", issues[0].Code)
	assert.Equal(t, types.Severity_WARN, issues[0].Severity)
	assert.Equal(t, "SELECT_STAR", issues[0].Rule)
	assert.Equal(t, 3, issues[0].QueryIndex)
	assert.Contains(t, issues[0].Message, "Avoid SELECT *")

	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users;"), info, 0))
}

func TestUnusedJoinRule(t *testing.T) {
	rule := &UnusedJoinRule{}
	info := types.NewTableInfo()

	// Joined table never referenced outside the join itself is fine:
	// the join condition references it. An unused join references no
	// columns at all.
	issues := rule.Check(mustParse(t, "SELECT a.x FROM a JOIN b USING (x);"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R002", issues[0].Code)
	assert.Contains(t, issues[0].Message, "'b'")

	// Table-qualified reference to the joined table counts as usage.
	issues = rule.Check(mustParse(t, "SELECT a.x, b.y FROM a JOIN b ON b.a_id = a.id;"), info, 0)
	assert.Empty(t, issues)

	// Alias-qualified references deliberately do not count.
	issues = rule.Check(mustParse(t, "SELECT a.x, u.y FROM a JOIN b u ON u.a_id = a.id;"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R002", issues[0].Code)
}

func TestCartesianJoinRule(t *testing.T) {
	rule := &CartesianJoinRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT * FROM t1 CROSS JOIN t2;"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R003", issues[0].Code)
	assert.Equal(t, types.Severity_ERROR, issues[0].Severity)

	assert.Empty(t, rule.Check(mustParse(t, "SELECT * FROM a JOIN b ON a.id = b.a_id;"), info, 0))
	assert.Empty(t, rule.Check(mustParse(t, "SELECT * FROM a, b;"), info, 0))
}

func TestNonSargableRule(t *testing.T) {
	rule := &NonSargableRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT id FROM users WHERE LOWER(email) = 'x' AND UPPER(name) = 'Y';"), info, 0)
	require.Len(t, issues, 1, "reported at most once per query")
	assert.Equal(t, "R004", issues[0].Code)

	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users WHERE email = 'x';"), info, 0))
}

func TestMissingPredicateRule(t *testing.T) {
	rule := &MissingPredicateRule{}

	issues := rule.Check(mustParse(t, "SELECT id FROM users;"), infoWithHint("users", 50000), 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R005", issues[0].Code)
	assert.Contains(t, issues[0].Message, "'users'")

	// WHERE clause present: absent regardless of hint.
	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users WHERE id = 1;"), infoWithHint("users", 50000), 0))

	// Hint at or below the threshold.
	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users;"), infoWithHint("users", 10000), 0))

	// No hint at all.
	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users;"), types.NewTableInfo(), 0))
}

func TestOrderByNoIndexRule(t *testing.T) {
	rule := &OrderByNoIndexRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT id FROM users ORDER BY created_at;"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R006", issues[0].Code)
	assert.Equal(t, types.Severity_INFO, issues[0].Severity)

	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users;"), info, 0))
}

func TestDistinctMisuseRule(t *testing.T) {
	rule := &DistinctMisuseRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT DISTINCT a.x FROM a JOIN b ON a.id = b.a_id;"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R007", issues[0].Code)

	// DISTINCT without joins is fine.
	assert.Empty(t, rule.Check(mustParse(t, "SELECT DISTINCT x FROM a;"), info, 0))
	// Joins without DISTINCT are fine.
	assert.Empty(t, rule.Check(mustParse(t, "SELECT a.x FROM a JOIN b ON a.id = b.a_id;"), info, 0))
}

func TestNPlusOneRule(t *testing.T) {
	rule := &NPlusOneRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT id FROM users u WHERE EXISTS (SELECT 1 FROM orders o WHERE o.user_id = u.id);"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R008", issues[0].Code)

	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM users WHERE id = 1;"), info, 0))
}

func TestLikePrefixWildcardRule(t *testing.T) {
	rule := &LikePrefixWildcardRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT name FROM users WHERE name LIKE '%smith';"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R009", issues[0].Code)

	// Trailing wildcard only: index-friendly, not reported.
	assert.Empty(t, rule.Check(mustParse(t, "SELECT name FROM users WHERE name LIKE 'smith%';"), info, 0))
	assert.Empty(t, rule.Check(mustParse(t, "SELECT name FROM users WHERE name = 'smith';"), info, 0))
}

func TestAggNoGroupingIndexRule(t *testing.T) {
	rule := &AggNoGroupingIndexRule{}
	info := types.NewTableInfo()

	issues := rule.Check(mustParse(t, "SELECT count(*) FROM orders;"), info, 0)
	require.Len(t, issues, 1)
	assert.Equal(t, "R010", issues[0].Code)
	assert.Equal(t, types.Severity_INFO, issues[0].Severity)

	assert.Empty(t, rule.Check(mustParse(t, "SELECT id FROM orders;"), info, 0))
}

func TestRunAllOrderAndSnippet(t *testing.T) {
	// Triggers SELECT_STAR, CARTESIAN_JOIN, and MISSING_PREDICATE in
	// one query; RunAll must keep the fixed rule order.
	q := mustParse(t, "SELECT * FROM users CROSS JOIN orders;")
	issues := RunAll(q, infoWithHint("users", 50000), 7)

	codes := issueCodes(issues)
	assert.Equal(t, []string{"R001", "R002", "R003", "R005"}, codes)
	for _, issue := range issues {
		assert.Equal(t, 7, issue.QueryIndex)
		assert.Equal(t, "SELECT * FROM users CROSS JOIN orders;", issue.Snippet)
	}
}

func TestRunAllRecoversPanickingRule(t *testing.T) {
	issues := runRule(&panickingRule{}, mustParse(t, "SELECT 1;"), types.NewTableInfo(), 0)
	assert.Empty(t, issues)
}

type panickingRule struct{}

func (*panickingRule) Name() string { return "PANICKING" }

func (*panickingRule) Check(*queryast.Query, types.TableInfo, int) []*types.Issue {
	panic("unexpected tree shape")
}
