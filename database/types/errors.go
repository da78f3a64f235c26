//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import "errors"

// Sentinel errors returned by the statement builder.
// These can be used with errors.Is() for programmatic error checking.
var (
	// ErrInvalidInstruction is returned when a query description violates a builder
	// contract: unknown aggregate, unknown operator, negative paging, empty WHERE for
	// UPDATE/DELETE, unsupported literal type, heterogeneous INSERT batch.
	ErrInvalidInstruction = errors.New("invalid sql builder instruction")

	// ErrUnsupportedDialectFeature is returned when a construct exists in some dialect but
	// not in the active one (e.g. argMax under MySQL). It is always wrapped together with
	// ErrInvalidInstruction.
	ErrUnsupportedDialectFeature = errors.New("unsupported command in selected dialect")

	// ErrEmptyTableName is returned when a statement is requested without a table.
	ErrEmptyTableName = errors.New("table name cannot be empty")

	// ErrEmptyWhere is returned when UPDATE or DELETE is requested without a filter.
	ErrEmptyWhere = errors.New("empty where is forbidden")
)
