package database

import "github.com/reddwarf-io/reddwarf/database/types"

// Database vendors accepted by NewConnection.
const (
	MySQL      = types.VendorMySQL
	ClickHouse = types.VendorClickHouse
	SQLite     = types.VendorSQLite
)

// SQL dialects.
const (
	DialectMySQL      = types.MySQL
	DialectClickHouse = types.ClickHouse
)
