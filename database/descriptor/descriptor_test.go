package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database"
	"github.com/reddwarf-io/reddwarf/database/internal/mocks"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/validation"
)

const selectDescription = `
table: users
columns: [id, name, {aggr: count, col: id, as: cnt}]
where: {age: {">": 18, "<": 65}, status: [a, b], name: bob}
group_by: [type]
limit: 10
offset: 5
`

func TestParseSelect(t *testing.T) {
	d, err := Parse([]byte(selectDescription))
	require.NoError(t, err)

	assert.Equal(t, OpSelect, d.Op)
	assert.Equal(t, "users", d.Table)
	assert.Equal(t, []ColumnSpec{{Name: "id"}, {Name: "name"}, {Name: "id", Aggregate: "count", Alias: "cnt"}}, d.Columns)

	q, err := d.SelectQuery()
	require.NoError(t, err)
	assert.Equal(t, dbtypes.Conditions{
		dbtypes.Compare("age", dbtypes.Term{Op: dbtypes.OpLt, Value: 65}, dbtypes.Term{Op: dbtypes.OpGt, Value: 18}),
		dbtypes.Eq("name", "bob"),
		dbtypes.In("status", "a", "b"),
	}, q.Where)
	assert.Equal(t, []string{"type"}, q.GroupBy)
	require.NotNil(t, q.Paging.Limit)
	assert.Equal(t, 10, *q.Paging.Limit)
	assert.Equal(t, 5, *q.Paging.Offset)
}

func TestRenderSelect(t *testing.T) {
	d, err := Parse([]byte(selectDescription))
	require.NoError(t, err)

	r, err := d.Render(database.NewStatementBuilder(dbtypes.MySQL, database.WithInlineLiterals()))
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name, count(id) cnt FROM users WHERE age < 65 AND age > 18 AND name = 'bob' AND status IN ('a','b') GROUP BY type LIMIT 10 OFFSET 5",
		r.SQL)
	assert.Empty(t, r.Args)

	r, err = d.Render(database.NewStatementBuilder(dbtypes.MySQL))
	require.NoError(t, err)
	assert.Equal(t, []any{65, 18, "bob", "a", "b"}, r.Args)
}

func TestRenderMutations(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		dialect dbtypes.Dialect
		want    Rendered
	}{
		{
			name:    "insert mysql",
			doc:     "op: insert\ntable: users\nrows: [{id: 1, name: a}, {id: 2, name: b}]",
			dialect: dbtypes.MySQL,
			want:    Rendered{SQL: "INSERT INTO users (id,name) VALUES (?,?),(?,?)", Args: []any{1, "a", 2, "b"}},
		},
		{
			name:    "insert clickhouse",
			doc:     "op: insert\ntable: events\nrows: [{id: 1, type: click}]",
			dialect: dbtypes.ClickHouse,
			want:    Rendered{SQL: "INSERT INTO events (id, type) VALUES", Batch: [][]any{{1, "click"}}},
		},
		{
			name:    "empty insert",
			doc:     "op: insert\ntable: users\nrows: []",
			dialect: dbtypes.MySQL,
			want:    Rendered{},
		},
		{
			name:    "update",
			doc:     "op: update\ntable: users\nwhere: {id: 7}\ndata: {name: x}",
			dialect: dbtypes.MySQL,
			want:    Rendered{SQL: "UPDATE users SET name = ? WHERE id = ?", Args: []any{"x", 7}},
		},
		{
			name:    "delete",
			doc:     "op: delete\ntable: users\nwhere: {id: [1, 2]}",
			dialect: dbtypes.MySQL,
			want:    Rendered{SQL: "DELETE FROM users WHERE id IN (?,?)", Args: []any{1, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			got, err := d.Render(database.NewStatementBuilder(tt.dialect))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "unknown key", doc: "table: users\nlimt: 3"},
		{name: "bad column", doc: "table: users\ncolumns: [[id]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestUnknownOperatorRejected(t *testing.T) {
	d, err := Parse([]byte("table: users\nwhere: {age: {like: '%a'}}"))
	require.NoError(t, err)

	_, err = d.SelectQuery()
	assert.ErrorIs(t, err, dbtypes.ErrInvalidInstruction)
}

func TestValidate(t *testing.T) {
	v := validation.NewValidator()
	require.NotNil(t, v)

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "valid", doc: selectDescription},
		{name: "missing table", doc: "columns: [id]", wantErr: "table is required"},
		{name: "negative limit", doc: "table: t\nlimit: -1", wantErr: "limit must be at least 0"},
		{name: "bad dialect", doc: "table: t\ndialect: oracle", wantErr: "dialect must be a supported sql dialect"},
		{name: "bad operator", doc: "table: t\nwhere: {age: {'~': 1}}", wantErr: `where age: operator "~" must be one of`},
		{name: "bad op", doc: "op: upsert\ntable: t", wantErr: "op must be one of"},
		{name: "update without data", doc: "op: update\ntable: t\nwhere: {id: 1}", wantErr: "without data"},
		{name: "delete without where", doc: "op: delete\ntable: t", wantErr: "empty where"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			err = d.Validate(v)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromMapAndLoad(t *testing.T) {
	d, err := FromMap(map[string]any{
		"table":   "users",
		"columns": []any{"id", map[string]any{"aggr": "max", "col": "age"}},
		"where":   map[string]any{"id": []any{1, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []ColumnSpec{{Name: "id"}, {Name: "age", Aggregate: "max"}}, d.Columns)

	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(selectDescription), 0o600))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "users", loaded.Table)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExecuteAgainstSQLite(t *testing.T) {
	conn, err := database.NewConnection(&config.DatabaseConfig{Type: database.SQLite, Path: ":memory:"}, &mocks.Logger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	_, err = conn.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)

	store := database.NewStore(conn, &mocks.Logger{})
	steps := []struct {
		doc  string
		rows int64
	}{
		{doc: "op: insert\ntable: users\nrows: [{id: 1, name: a}, {id: 2, name: b}]", rows: 2},
		{doc: "op: update\ntable: users\nwhere: {id: 2}\ndata: {name: c}", rows: 1},
		{doc: "op: delete\ntable: users\nwhere: {id: 1}", rows: 1},
	}
	for _, step := range steps {
		d, err := Parse([]byte(step.doc))
		require.NoError(t, err)
		res, err := d.Execute(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, step.rows, res.RowsAffected, step.doc)
	}

	d, err := Parse([]byte("table: users\ncolumns: [name]"))
	require.NoError(t, err)
	res, err := d.Execute(ctx, store)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "c", res.Records[0].Get("name"))
}
