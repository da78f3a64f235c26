// Package mysql opens MySQL connections through github.com/go-sql-driver/mysql.
package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/sqlconn"
	"github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/logger"
)

const driverName = "mysql"

var (
	openMySQLDB = func(dsn string) (*sql.DB, error) {
		return sql.Open(driverName, dsn)
	}
	pingMySQLDB sqlconn.PingFunc = sqlconn.DefaultPing
)

// NewConnection opens and pings a MySQL pool configured by cfg.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (*sqlconn.Connection, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := openMySQLDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	return sqlconn.Establish(db, types.VendorMySQL, cfg, log, pingMySQLDB)
}

// BuildDSN returns cfg.ConnectionString when set, otherwise a TCP DSN with parseTime
// enabled so DATETIME columns scan into time.Time.
func BuildDSN(cfg *config.DatabaseConfig) (string, error) {
	if cfg.ConnectionString != "" {
		if _, err := mysql.ParseDSN(cfg.ConnectionString); err != nil {
			return "", fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		return cfg.ConnectionString, nil
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.ParseTime = true

	return mc.FormatDSN(), nil
}
