package database

import (
	"fmt"
	"slices"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/clickhouse"
	"github.com/reddwarf-io/reddwarf/database/internal/sqlconn"
	"github.com/reddwarf-io/reddwarf/database/mysql"
	"github.com/reddwarf-io/reddwarf/database/sqlite"
	"github.com/reddwarf-io/reddwarf/logger"
)

type connector func(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error)

var connectors = map[string]connector{
	MySQL: func(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
		return asInterface(mysql.NewConnection(cfg, log))
	},
	ClickHouse: func(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
		return asInterface(clickhouse.NewConnection(cfg, log))
	},
	SQLite: func(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
		return asInterface(sqlite.NewConnection(cfg, log))
	},
}

func asInterface(conn *sqlconn.Connection, err error) (Interface, error) {
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// NewConnection creates a database connection according to cfg and returns it wrapped
// with performance tracking. The driver is selected by cfg.Type (supported: "mysql",
// "clickhouse", "sqlite"). An unset database section yields a not-configured
// config.ConfigError; driver initialization errors are returned unchanged.
//
// Pool gauges are reported while the connection is open.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
	if cfg == nil || !config.IsDatabaseConfigured(cfg) {
		return nil, config.NewNotConfiguredError("database", "DATABASE_TYPE", "database.type")
	}

	connect, ok := connectors[cfg.Type]
	if !ok {
		return nil, ValidateDatabaseType(cfg.Type)
	}

	conn, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}

	tracked := NewTrackedConnection(conn, log, cfg)
	return &meteredConnection{
		Interface:  tracked,
		unregister: RegisterConnectionPoolMetrics(conn, cfg.Type),
	}, nil
}

// meteredConnection stops pool gauge reporting on Close.
type meteredConnection struct {
	Interface
	unregister func()
}

func (c *meteredConnection) Close() error {
	c.unregister()
	return c.Interface.Close()
}

// ValidateDatabaseType returns nil if dbType is one of the supported database types.
func ValidateDatabaseType(dbType string) error {
	supportedTypes := GetSupportedDatabaseTypes()
	if !slices.Contains(supportedTypes, dbType) {
		return fmt.Errorf("unsupported database type: %s (supported: %v)", dbType, supportedTypes)
	}
	return nil
}

// GetSupportedDatabaseTypes returns a list of supported database types
func GetSupportedDatabaseTypes() []string {
	return []string{MySQL, ClickHouse, SQLite}
}
