//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"context"
	"database/sql"
)

// Transactor defines transaction management operations.
//
// The builder never commits; mutations issued through database.Store run inside a
// transaction obtained here:
//
//	tx, err := db.Begin(ctx)
//	if err != nil { return err }
//	defer tx.Rollback()  // No-op if already committed
//	// ... execute operations on tx ...
//	return tx.Commit()
type Transactor interface {
	// Begin starts a new transaction with default isolation level.
	Begin(ctx context.Context) (Tx, error)

	// BeginTx starts a new transaction with explicit isolation level and read-only settings.
	// Note: ClickHouse ignores isolation levels; its transactions only group batch inserts.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}
