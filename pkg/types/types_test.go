package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Dialect
		wantErr bool
	}{
		{name: "postgres", input: "postgres", want: Dialect_POSTGRES},
		{name: "postgresql alias", input: "postgresql", want: Dialect_POSTGRES},
		{name: "sqlite", input: "sqlite", want: Dialect_SQLITE},
		{name: "sqlite3 alias", input: "sqlite3", want: Dialect_SQLITE},
		{name: "case insensitive", input: "  Postgres ", want: Dialect_POSTGRES},
		{name: "unknown", input: "mysql", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDialectString(t *testing.T) {
	assert.Equal(t, "postgres", Dialect_POSTGRES.String())
	assert.Equal(t, "sqlite", Dialect_SQLITE.String())
	assert.Equal(t, "unspecified", Dialect_DIALECT_UNSPECIFIED.String())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Severity
		wantErr bool
	}{
		{name: "info", input: "info", want: Severity_INFO},
		{name: "warn", input: "warn", want: Severity_WARN},
		{name: "warning alias", input: "warning", want: Severity_WARN},
		{name: "error", input: "error", want: Severity_ERROR},
		{name: "unknown", input: "fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Severity_WARN)
	require.NoError(t, err)
	assert.Equal(t, `"warn"`, string(data))

	var s Severity
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, Severity_WARN, s)
}

func TestSnippet(t *testing.T) {
	short := "SELECT 1"
	assert.Equal(t, short, Snippet(short))

	long := "SELECT " + strings.Repeat("x", 300)
	got := Snippet(long)
	assert.Len(t, got, SnippetLimit)
	assert.Equal(t, long[:SnippetLimit], got)
}

func TestIndexSuggestionKey(t *testing.T) {
	a := &IndexSuggestion{Table: "users", Columns: []string{"id", "email"}, Kind: IndexKind_BTREE}
	b := &IndexSuggestion{Table: "users", Columns: []string{"id", "email"}, Kind: IndexKind_BTREE}
	c := &IndexSuggestion{Table: "users", Columns: []string{"email", "id"}, Kind: IndexKind_BTREE}
	d := &IndexSuggestion{Table: "users", Columns: []string{"id", "email"}, Kind: IndexKind_GIN}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, a.Key(), d.Key())
}

func TestTableInfo(t *testing.T) {
	info := NewTableInfo()
	assert.True(t, info.IsEmpty())

	info.Tables["Users"] = []ColumnInfo{{Name: "id", Type: "INTEGER"}}
	info.RowHints["Users"] = 50000

	assert.False(t, info.IsEmpty())

	rows, ok := info.RowHint("Users")
	require.True(t, ok)
	assert.Equal(t, int64(50000), rows)

	_, ok = info.RowHint("users")
	assert.False(t, ok, "row hints are stored under the declared-case key")

	assert.Len(t, info.Columns("Users"), 1)
	assert.Nil(t, info.Columns("orders"))
}
