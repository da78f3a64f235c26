package database

import (
	"github.com/reddwarf-io/reddwarf/database/types"
)

// Interface is the executor statements are handed to.
// The interfaces live in database/types to avoid import cycles.
type Interface = types.Interface

// Querier runs single statements.
type Querier = types.Querier

// PreparedStatement is a prepared statement.
type PreparedStatement = types.PreparedStatement

// Tx defines the interface for database transactions.
type Tx = types.Tx

// Data model re-exports.
type (
	Dialect         = types.Dialect
	Column          = types.Column
	Condition       = types.Condition
	Conditions      = types.Conditions
	Paging          = types.Paging
	SelectQuery     = types.SelectQuery
	Row             = types.Row
	Statement       = types.Statement
	InsertStatement = types.InsertStatement
)
