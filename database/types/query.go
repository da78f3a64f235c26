//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

// Paging describes the LIMIT/OFFSET window. Nil fields are absent.
type Paging struct {
	Limit  *int
	Offset *int
}

// WithLimit returns a copy of p with the limit set.
func (p Paging) WithLimit(n int) Paging {
	p.Limit = &n
	return p
}

// WithOffset returns a copy of p with the offset set.
func (p Paging) WithOffset(n int) Paging {
	p.Offset = &n
	return p
}

// Page is shorthand for Paging{}.WithLimit(limit).WithOffset(offset).
func Page(limit, offset int) Paging {
	return Paging{}.WithLimit(limit).WithOffset(offset)
}

// SelectQuery is the full description of a SELECT statement.
type SelectQuery struct {
	Table   string
	Columns []Column
	Where   Conditions
	Paging  Paging
	GroupBy []string
}

// Select starts a SelectQuery on table.
func Select(table string, columns ...Column) SelectQuery {
	return SelectQuery{Table: table, Columns: columns}
}

// Filter returns a copy of q with conditions appended to its WHERE list.
func (q SelectQuery) Filter(conds ...Condition) SelectQuery {
	where := make(Conditions, 0, len(q.Where)+len(conds))
	where = append(where, q.Where...)
	q.Where = append(where, conds...)
	return q
}

// Group returns a copy of q grouped by the given columns.
func (q SelectQuery) Group(columns ...string) SelectQuery {
	q.GroupBy = columns
	return q
}

// Window returns a copy of q with the given paging.
func (q SelectQuery) Window(p Paging) SelectQuery {
	q.Paging = p
	return q
}

// Row is one record for INSERT or the SET data of an UPDATE, keyed by column.
type Row = map[string]any
