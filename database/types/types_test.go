package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in       string
		expected Dialect
	}{
		{in: "", expected: MySQL},
		{in: "mysql", expected: MySQL},
		{in: " Standard ", expected: MySQL},
		{in: "ClickHouse", expected: ClickHouse},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDialect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
			assert.True(t, d.Valid())
		})
	}

	_, err := ParseDialect("oracle")
	assert.Error(t, err)
	assert.False(t, Dialect("oracle").Valid())
}

func TestDialectForVendor(t *testing.T) {
	d, err := DialectForVendor(VendorSQLite)
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	d, err = DialectForVendor(VendorClickHouse)
	require.NoError(t, err)
	assert.Equal(t, ClickHouse, d)

	_, err = DialectForVendor("postgresql")
	assert.Error(t, err)
}

func TestParseOperator(t *testing.T) {
	for _, op := range Operators() {
		got, err := ParseOperator(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	_, err := ParseOperator("LIKE")
	assert.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestColumnHelpers(t *testing.T) {
	c := Aggr("count", "id")
	assert.True(t, c.IsAggregate())
	assert.Equal(t, "id", c.OutputName())
	assert.Equal(t, "cnt", c.As("cnt").OutputName())
	assert.False(t, Col("name").IsAggregate())
	assert.Equal(t, []Column{{Name: "a"}, {Name: "b"}}, Cols("a", "b"))
}

func TestPaging(t *testing.T) {
	p := Page(10, 5)
	require.NotNil(t, p.Limit)
	require.NotNil(t, p.Offset)
	assert.Equal(t, 10, *p.Limit)
	assert.Equal(t, 5, *p.Offset)

	empty := Paging{}
	limited := empty.WithLimit(3)
	assert.Nil(t, empty.Limit)
	assert.Nil(t, limited.Offset)
}

func TestSelectQueryFilterDoesNotAlias(t *testing.T) {
	base := Select("t").Filter(Eq("a", 1))
	left := base.Filter(Eq("b", 2))
	right := base.Filter(Eq("c", 3))

	assert.Len(t, base.Where, 1)
	assert.Equal(t, "b", left.Where[1].Column())
	assert.Equal(t, "c", right.Where[1].Column())
}

func TestInsertStatementRowArgs(t *testing.T) {
	s := InsertStatement{
		Columns: []string{"id", "name"},
		Rows:    []Row{{"name": "a", "id": 1}, {"id": 2, "name": nil}},
	}
	assert.False(t, s.Noop())
	assert.Equal(t, [][]any{{1, "a"}, {2, nil}}, s.RowArgs())
	assert.True(t, InsertStatement{}.Noop())
}

func TestConditionsEmpty(t *testing.T) {
	assert.True(t, Conditions(nil).Empty())
	assert.False(t, Where(In("a", 1)).Empty())
}
