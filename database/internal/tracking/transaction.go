package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/reddwarf-io/reddwarf/database/types"
)

// Transaction wraps types.Tx with tracking. Commit and Rollback are tracked with the
// context the transaction was started with.
type Transaction struct {
	tx  types.Tx
	ctx context.Context
	tc  *Context
}

var _ types.Tx = (*Transaction)(nil)

// NewTransaction wraps tx. ctx is used for tracking Commit and Rollback.
func NewTransaction(ctx context.Context, tx types.Tx, tc *Context) *Transaction {
	return &Transaction{tx: tx, ctx: ctx, tc: tc}
}

// ID returns the generated transaction id.
func (tx *Transaction) ID() string {
	return tx.tc.TxID
}

func (tx *Transaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := tx.tx.Query(ctx, query, args...)
	TrackDBOperation(ctx, tx.tc, query, args, start, 0, err)
	return rows, err
}

func (tx *Transaction) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := tx.tx.Exec(ctx, query, args...)
	TrackDBOperation(ctx, tx.tc, query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

func (tx *Transaction) Prepare(ctx context.Context, query string) (types.PreparedStatement, error) {
	start := time.Now()
	stmt, err := tx.tx.Prepare(ctx, query)
	TrackDBOperation(ctx, tx.tc, prefixPrep+query, nil, start, 0, err)
	if err != nil {
		return nil, err
	}
	return NewStatement(stmt, tx.tc, query), nil
}

func (tx *Transaction) Commit() error {
	start := time.Now()
	err := tx.tx.Commit()
	TrackDBOperation(tx.ctx, tx.tc, opCommit, nil, start, 0, err)
	return err
}

func (tx *Transaction) Rollback() error {
	start := time.Now()
	err := tx.tx.Rollback()
	TrackDBOperation(tx.ctx, tx.tc, opRollback, nil, start, 0, err)
	return err
}
