package descriptor

import (
	"context"
	"fmt"

	"github.com/reddwarf-io/reddwarf/database"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// Rendered is the statement a description turns into. Batch holds per-row arguments
// for ClickHouse inserts, whose SQL ends at VALUES and is executed once per row.
type Rendered struct {
	SQL   string  `json:"sql"`
	Args  []any   `json:"args,omitempty"`
	Batch [][]any `json:"batch,omitempty"`
}

// Result of running a description: the records of a select or the affected row count
// of a mutation.
type Result struct {
	Records      []database.Record
	RowsAffected int64
}

// Render builds the statement text for d with b. An empty insert batch renders an
// empty Rendered.
func (d *Descriptor) Render(b *database.StatementBuilder) (Rendered, error) {
	switch d.Op {
	case OpSelect, "":
		q, err := d.SelectQuery()
		if err != nil {
			return Rendered{}, err
		}
		return fromStatement(b.BuildSelect(q))

	case OpInsert:
		ins, err := b.BuildInsert(d.Table, d.Rows)
		if err != nil || ins.Noop() {
			return Rendered{}, err
		}
		if ins.Dialect == dbtypes.ClickHouse {
			return Rendered{SQL: ins.SQL, Batch: ins.RowArgs()}, nil
		}
		return fromStatement(b.BindRows(ins))

	case OpUpdate:
		where, err := d.Conditions()
		if err != nil {
			return Rendered{}, err
		}
		return fromStatement(b.BuildUpdate(d.Table, where, d.Data))

	case OpDelete:
		where, err := d.Conditions()
		if err != nil {
			return Rendered{}, err
		}
		return fromStatement(b.BuildDelete(d.Table, where))

	default:
		return Rendered{}, fmt.Errorf("%w: unknown operation %q", dbtypes.ErrInvalidInstruction, d.Op)
	}
}

func fromStatement(st dbtypes.Statement, err error) (Rendered, error) {
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{SQL: st.SQL, Args: st.Args}, nil
}

// Execute runs d through store.
func (d *Descriptor) Execute(ctx context.Context, store *database.Store) (Result, error) {
	switch d.Op {
	case OpSelect, "":
		q, err := d.SelectQuery()
		if err != nil {
			return Result{}, err
		}
		records, err := store.SelectMany(ctx, q)
		return Result{Records: records}, err

	case OpInsert:
		n, err := store.InsertMany(ctx, d.Table, d.Rows)
		return Result{RowsAffected: n}, err

	case OpUpdate:
		where, err := d.Conditions()
		if err != nil {
			return Result{}, err
		}
		n, err := store.UpdateMany(ctx, d.Table, where, d.Data)
		return Result{RowsAffected: n}, err

	case OpDelete:
		where, err := d.Conditions()
		if err != nil {
			return Result{}, err
		}
		n, err := store.RemoveMany(ctx, d.Table, where)
		return Result{RowsAffected: n}, err

	default:
		return Result{}, fmt.Errorf("%w: unknown operation %q", dbtypes.ErrInvalidInstruction, d.Op)
	}
}
