// Package types contains the public data model of the statement builder and the
// executor interfaces the rest of the module depends on. They live apart from the
// database package to avoid import cycles and to keep them easy to mock.
//
//nolint:revive // Package name "types" is intentionally generic to avoid circular
package types

import (
	"context"
	"database/sql"
)

// PreparedStatement defines the interface for prepared statements
type PreparedStatement interface {
	Query(ctx context.Context, args ...any) (*sql.Rows, error)
	Exec(ctx context.Context, args ...any) (sql.Result, error)
	Close() error
}

// Tx defines the interface for database transactions
type Tx interface {
	// Query execution within transaction
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Prepared statements within transaction
	Prepare(ctx context.Context, query string) (PreparedStatement, error)

	// Transaction control
	Commit() error
	Rollback() error
}

// Interface defines the executor the statement builder's output is handed to.
// The caller owns its lifecycle: acquisition, commit and pooling all happen here,
// never inside the builder.
type Interface interface {
	Querier
	Transactor

	// Prepared statements
	Prepare(ctx context.Context, query string) (PreparedStatement, error)

	// Health and diagnostics
	Health(ctx context.Context) error
	Stats() (map[string]any, error)

	// Connection management
	Close() error
}
