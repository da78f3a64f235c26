// Package builder assembles dialect-aware SELECT, INSERT, UPDATE and DELETE statements
// from structured query descriptions. It holds no state between calls and performs
// no I/O; a StatementBuilder is safe for concurrent use.
package builder

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// StatementBuilder renders statements for one dialect.
// It wraps squirrel.StatementBuilderType with the dialect's capability table.
type StatementBuilder struct {
	dialect          dbtypes.Dialect
	caps             capabilities
	inline           bool
	statementBuilder squirrel.StatementBuilderType
}

// Option customizes a StatementBuilder.
type Option func(*StatementBuilder)

// WithInlineLiterals renders every value as a literal in the statement text instead
// of binding it. Args of the resulting statements are always empty.
func WithInlineLiterals() Option {
	return func(b *StatementBuilder) {
		b.inline = true
	}
}

// WithPlaceholderFormat overrides the dialect's placeholder format for bound values.
func WithPlaceholderFormat(f squirrel.PlaceholderFormat) Option {
	return func(b *StatementBuilder) {
		if f != nil {
			b.statementBuilder = b.statementBuilder.PlaceholderFormat(f)
		}
	}
}

// NewStatementBuilder creates a builder for the given dialect. An unknown dialect
// gets an empty capability set, so any aggregate is rejected.
func NewStatementBuilder(dialect dbtypes.Dialect, opts ...Option) *StatementBuilder {
	caps := lookupDialect(dialect)
	b := &StatementBuilder{
		dialect:          dialect,
		caps:             caps,
		statementBuilder: squirrel.StatementBuilder.PlaceholderFormat(caps.placeholder),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.inline {
		// Inline substitution scans for "?" so the format is fixed.
		b.statementBuilder = b.statementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return b
}

// Dialect returns the dialect statements are rendered for
func (b *StatementBuilder) Dialect() dbtypes.Dialect {
	return b.dialect
}

// Inline reports whether values are rendered as literals
func (b *StatementBuilder) Inline() bool {
	return b.inline
}

// BuildSelect renders projection, FROM, WHERE, GROUP BY and the LIMIT/OFFSET window
// in grammar order.
func (b *StatementBuilder) BuildSelect(q dbtypes.SelectQuery) (dbtypes.Statement, error) {
	table, err := source(q.Table)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	cols, err := projection(q.Columns, b.caps, b.dialect)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	group, err := grouping(q.GroupBy)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	win, err := window(q.Paging)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	where, err := compileConditions(q.Where, b.caps)
	if err != nil {
		return dbtypes.Statement{}, err
	}

	sb := b.statementBuilder.Select(cols...).From(table)
	if where != nil {
		sb = sb.Where(where)
	}
	if len(group) > 0 {
		sb = sb.GroupBy(group...)
	}
	if win != "" {
		sb = sb.Suffix(win)
	}
	return b.finish(sb)
}

// BuildInsert renders the parameterized INSERT for rows and returns the rows unchanged
// for the executor to bind. Columns come from the first row in sorted order and every
// other row must carry exactly the same columns.
//
// An empty batch is not an error: the returned statement reports Noop() == true.
func (b *StatementBuilder) BuildInsert(table string, rows []dbtypes.Row) (dbtypes.InsertStatement, error) {
	if len(rows) == 0 {
		return dbtypes.InsertStatement{Table: table, Dialect: b.dialect}, nil
	}
	target, err := source(table)
	if err != nil {
		return dbtypes.InsertStatement{}, err
	}
	if len(rows[0]) == 0 {
		return dbtypes.InsertStatement{}, fmt.Errorf("%w: insert row without columns", dbtypes.ErrInvalidInstruction)
	}

	cols := sortedKeys(rows[0])
	for i, row := range rows[1:] {
		if !sameKeys(row, cols) {
			return dbtypes.InsertStatement{}, fmt.Errorf("%w: row %d columns %v differ from %v",
				dbtypes.ErrInvalidInstruction, i+1, sortedKeys(row), cols)
		}
	}

	sql := "INSERT INTO " + target + " (" + strings.Join(cols, ", ") + ") VALUES" + b.caps.insertValues(cols)
	return dbtypes.InsertStatement{
		SQL:     sql,
		Table:   target,
		Dialect: b.dialect,
		Columns: cols,
		Rows:    rows,
	}, nil
}

// BindRows renders an insert batch as a single positional multi-row statement
// (INSERT INTO t (a,b) VALUES (?,?),(?,?)) for executors without named binding.
func (b *StatementBuilder) BindRows(ins dbtypes.InsertStatement) (dbtypes.Statement, error) {
	if ins.Noop() {
		return dbtypes.Statement{}, fmt.Errorf("%w: no rows to bind", dbtypes.ErrInvalidInstruction)
	}
	ib := b.statementBuilder.Insert(ins.Table).Columns(ins.Columns...)
	for _, vals := range ins.RowArgs() {
		ib = ib.Values(vals...)
	}
	return b.finish(ib)
}

// BuildUpdate renders UPDATE table SET ... WHERE .... An empty where is rejected so a
// missing filter can never turn into a full-table update.
func (b *StatementBuilder) BuildUpdate(table string, where dbtypes.Conditions, data dbtypes.Row) (dbtypes.Statement, error) {
	target, err := source(table)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	if where.Empty() {
		return dbtypes.Statement{}, fmt.Errorf("%w: %w in UPDATE clause", dbtypes.ErrInvalidInstruction, dbtypes.ErrEmptyWhere)
	}
	if len(data) == 0 {
		return dbtypes.Statement{}, fmt.Errorf("%w: update without columns to set", dbtypes.ErrInvalidInstruction)
	}
	filter, err := compileConditions(where, b.caps)
	if err != nil {
		return dbtypes.Statement{}, err
	}

	ub := b.statementBuilder.Update(target)
	for _, col := range sortedKeys(data) {
		ub = ub.Set(col, data[col])
	}
	return b.finish(ub.Where(filter))
}

// BuildDelete renders DELETE FROM table WHERE .... An empty where is rejected.
func (b *StatementBuilder) BuildDelete(table string, where dbtypes.Conditions) (dbtypes.Statement, error) {
	target, err := source(table)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	if where.Empty() {
		return dbtypes.Statement{}, fmt.Errorf("%w: %w in DELETE clause", dbtypes.ErrInvalidInstruction, dbtypes.ErrEmptyWhere)
	}
	filter, err := compileConditions(where, b.caps)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	return b.finish(b.statementBuilder.Delete(target).Where(filter))
}

// finish generates the SQL and, in inline mode, folds the arguments into the text.
func (b *StatementBuilder) finish(s squirrel.Sqlizer) (dbtypes.Statement, error) {
	sql, args, err := s.ToSql()
	if err != nil {
		return dbtypes.Statement{}, fmt.Errorf("%w: %w", dbtypes.ErrInvalidInstruction, err)
	}
	if !b.inline {
		return dbtypes.Statement{SQL: sql, Args: args}, nil
	}
	text, err := inlineArgs(sql, args)
	if err != nil {
		return dbtypes.Statement{}, err
	}
	return dbtypes.Statement{SQL: text}, nil
}
