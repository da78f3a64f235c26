package builder

import (
	"testing"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileConditionsEmpty(t *testing.T) {
	s, err := compileConditions(nil, lookupDialect(dbtypes.MySQL))
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestCompileConditions(t *testing.T) {
	tests := []struct {
		name    string
		conds   dbtypes.Conditions
		sql     string
		args    []any
		dialect dbtypes.Dialect
	}{
		{
			name:    "equality",
			conds:   dbtypes.Where(dbtypes.Eq("a", 1)),
			sql:     "a = ?",
			args:    []any{1},
			dialect: dbtypes.MySQL,
		},
		{
			name:    "membership",
			conds:   dbtypes.Where(dbtypes.In("a", 1, 2, 3)),
			sql:     "a IN (?,?,?)",
			args:    []any{1, 2, 3},
			dialect: dbtypes.MySQL,
		},
		{
			name:    "range keeps term order",
			conds:   dbtypes.Where(dbtypes.Compare("a", dbtypes.Term{Op: dbtypes.OpLte, Value: 9}, dbtypes.Term{Op: dbtypes.OpNotEq, Value: 5})),
			sql:     "a <= ? AND a != ?",
			args:    []any{9, 5},
			dialect: dbtypes.MySQL,
		},
		{
			name:    "clickhouse regexp",
			conds:   dbtypes.Where(dbtypes.Regexp("a", "^x"), dbtypes.Lt("b", 2)),
			sql:     "match(a, ?) AND b < ?",
			args:    []any{"^x", 2},
			dialect: dbtypes.ClickHouse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := compileConditions(tt.conds, lookupDialect(tt.dialect))
			require.NoError(t, err)
			sql, args, err := s.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCompileConditionsErrors(t *testing.T) {
	caps := lookupDialect(dbtypes.MySQL)
	cases := map[string]dbtypes.Conditions{
		"nil condition":      {nil},
		"missing column":     dbtypes.Where(dbtypes.Eq("", 1)),
		"empty membership":   dbtypes.Where(dbtypes.In("a")),
		"comparison no term": dbtypes.Where(dbtypes.Compare("a")),
		"bad operator":       dbtypes.Where(dbtypes.Compare("a", dbtypes.Term{Op: "like", Value: "x"})),
		"nil comparison":     dbtypes.Where(dbtypes.Gt("a", nil)),
		"nil regexp value":   dbtypes.Where(dbtypes.Compare("a", dbtypes.Term{Op: dbtypes.OpRegexp})),
	}
	for name, conds := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := compileConditions(conds, caps)
			assert.ErrorIs(t, err, dbtypes.ErrInvalidInstruction)
		})
	}
}
