//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL variant a statement is rendered for.
// The set is closed: MySQL (the standard dialect) and ClickHouse.
type Dialect string

const (
	// MySQL is the standard dialect. SQLite connections also render with it.
	MySQL Dialect = "mysql"
	// ClickHouse adds argMax/argMin aggregates, renders regexp as match() and
	// leaves INSERT parameter binding to the driver's batch API.
	ClickHouse Dialect = "clickhouse"

	// DefaultDialect is used when no dialect is configured.
	DefaultDialect = MySQL
)

// Database vendor identifiers shared across the database packages.
type Vendor = string

const (
	VendorMySQL      Vendor = "mysql"
	VendorClickHouse Vendor = "clickhouse"
	VendorSQLite     Vendor = "sqlite"
)

// Dialects returns every supported dialect in a stable order.
func Dialects() []Dialect {
	return []Dialect{MySQL, ClickHouse}
}

// String implements fmt.Stringer.
func (d Dialect) String() string {
	return string(d)
}

// Valid reports whether d is one of the supported dialects.
func (d Dialect) Valid() bool {
	return d == MySQL || d == ClickHouse
}

// ParseDialect converts a case-insensitive name into a Dialect.
// An empty name yields DefaultDialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultDialect, nil
	case string(MySQL), "standard":
		return MySQL, nil
	case string(ClickHouse):
		return ClickHouse, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect: %s (supported: %s, %s)", name, MySQL, ClickHouse)
	}
}

// DialectForVendor maps a database vendor to the dialect its statements use.
func DialectForVendor(vendor Vendor) (Dialect, error) {
	switch vendor {
	case VendorMySQL, VendorSQLite:
		return MySQL, nil
	case VendorClickHouse:
		return ClickHouse, nil
	default:
		return "", fmt.Errorf("no sql dialect for database vendor: %s", vendor)
	}
}
