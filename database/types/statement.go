//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

// Statement is finished statement text plus the values bound to its placeholders.
// Args is empty when the builder renders literals inline.
type Statement struct {
	SQL  string
	Args []any
}

// InsertStatement is the parameterized INSERT text for a batch together with the
// untouched rows. Columns follows the placeholder order of SQL.
type InsertStatement struct {
	SQL     string
	Table   string
	Dialect Dialect
	Columns []string
	Rows    []Row
}

// Noop reports whether the batch was empty and nothing needs to run.
func (s InsertStatement) Noop() bool {
	return len(s.Rows) == 0
}

// RowArgs returns the values of every row ordered by Columns, ready for positional binding.
func (s InsertStatement) RowArgs() [][]any {
	out := make([][]any, len(s.Rows))
	for i, row := range s.Rows {
		vals := make([]any, len(s.Columns))
		for j, col := range s.Columns {
			vals[j] = row[col]
		}
		out[i] = vals
	}
	return out
}
