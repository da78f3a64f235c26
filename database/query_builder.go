// Package database renders structured query descriptions into dialect-specific SQL and
// runs them against MySQL, ClickHouse or SQLite.
//
//	b := database.NewStatementBuilder(database.DialectMySQL)
//	st, err := b.BuildSelect(types.Select("users", types.Col("id")).Filter(types.Gt("age", 18)))
package database

import (
	"github.com/reddwarf-io/reddwarf/database/internal/builder"
)

// StatementBuilder renders statements for one dialect.
type StatementBuilder = builder.StatementBuilder

// Option customizes a StatementBuilder.
type Option = builder.Option

var (
	// NewStatementBuilder creates a builder for a dialect.
	NewStatementBuilder = builder.NewStatementBuilder
	// WithInlineLiterals renders values into the statement text instead of binding them.
	WithInlineLiterals = builder.WithInlineLiterals
	// WithPlaceholderFormat overrides the placeholder format of bound values.
	WithPlaceholderFormat = builder.WithPlaceholderFormat
	// AggregateFunctions lists the aggregates a dialect allows.
	AggregateFunctions = builder.AggregateFunctions
	// RenderLiteral converts a value into inline SQL text.
	RenderLiteral = builder.RenderLiteral
)
