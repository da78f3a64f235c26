//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"context"
	"database/sql"
)

// Querier defines the query execution operations most callers need.
//
// Querier is designed for easy mocking in unit tests. Statements handed to it come
// from the statement builder, so their placeholders already follow the dialect.
type Querier interface {
	// Query executes a statement that returns rows, typically a SELECT.
	// The caller is responsible for closing the returned rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Exec executes a statement that doesn't return rows, typically INSERT, UPDATE, or DELETE.
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// DatabaseType returns the vendor identifier for this connection
	// (VendorMySQL, VendorClickHouse, VendorSQLite).
	DatabaseType() string

	// Dialect returns the SQL dialect statements for this connection must be built with.
	Dialect() Dialect
}
