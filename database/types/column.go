//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

// Column is one projection item of a SELECT: either a plain column name or an
// aggregate over a source column.
//
// Example:
//
//	Col("id")                       // id
//	Aggr("count", "id").As("cnt")   // count(id) cnt
//	Aggr("max", "score")            // max(score) score
type Column struct {
	Name      string
	Aggregate string
	Alias     string
}

// Col creates a plain column projection.
func Col(name string) Column {
	return Column{Name: name}
}

// Cols creates plain column projections preserving order.
func Cols(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Col(n)
	}
	return cols
}

// Aggr creates an aggregate projection fn(column). The function name is checked
// against the active dialect when the statement is built.
func Aggr(fn, column string) Column {
	return Column{Name: column, Aggregate: fn}
}

// As sets the output alias of an aggregate projection.
func (c Column) As(alias string) Column {
	c.Alias = alias
	return c
}

// IsAggregate reports whether the column is an aggregate descriptor.
func (c Column) IsAggregate() bool {
	return c.Aggregate != ""
}

// OutputName returns the alias of an aggregate, defaulting to the source column.
func (c Column) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}
