// Package sqlite opens SQLite databases through the pure Go driver modernc.org/sqlite.
// SQLite statements are rendered with the MySQL dialect.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/sqlconn"
	"github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/logger"
)

const (
	driverName = "sqlite"

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"
)

var (
	openSQLiteDB = func(dsn string) (*sql.DB, error) {
		return sql.Open(driverName, dsn)
	}
	pingSQLiteDB sqlconn.PingFunc = sqlconn.DefaultPing
)

// NewConnection opens cfg.ConnectionString, or cfg.Path when no connection string is set.
// An in-memory database is pinned to a single connection that never expires, since every
// new connection would see an empty database.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (*sqlconn.Connection, error) {
	dsn := cfg.ConnectionString
	if dsn == "" {
		dsn = cfg.Path
	}
	if dsn == "" {
		return nil, errors.New("sqlite database path is empty")
	}

	db, err := openSQLiteDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	effective := *cfg
	if dsn == MemoryPath {
		effective.Pool = config.PoolConfig{
			Max:  config.PoolMaxConfig{Connections: 1},
			Idle: config.PoolIdleConfig{Connections: 1},
		}
	}

	return sqlconn.Establish(db, types.VendorSQLite, &effective, log, pingSQLiteDB)
}
