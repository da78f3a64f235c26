// Package clickhouse opens ClickHouse connections through the database/sql interface of
// github.com/ClickHouse/clickhouse-go/v2.
package clickhouse

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/sqlconn"
	"github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/logger"
)

const (
	ProtocolNative = "native"
	ProtocolHTTP   = "http"

	defaultDialTimeout = 10 * time.Second
)

var (
	openClickHouseDB = func(opts *clickhouse.Options) *sql.DB {
		return clickhouse.OpenDB(opts)
	}
	pingClickHouseDB sqlconn.PingFunc = sqlconn.DefaultPing
)

// NewConnection opens and pings a ClickHouse pool configured by cfg.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (*sqlconn.Connection, error) {
	opts, err := BuildOptions(cfg)
	if err != nil {
		return nil, err
	}

	db := openClickHouseDB(opts)

	return sqlconn.Establish(db, types.VendorClickHouse, cfg, log, pingClickHouseDB)
}

// BuildOptions converts cfg into driver options. A connection string is parsed by the
// driver and takes precedence over the discrete fields.
func BuildOptions(cfg *config.DatabaseConfig) (*clickhouse.Options, error) {
	if cfg.ConnectionString != "" {
		opts, err := clickhouse.ParseDSN(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("invalid ClickHouse connection string: %w", err)
		}
		return opts, nil
	}

	protocol, err := parseProtocol(cfg.ClickHouse.Protocol)
	if err != nil {
		return nil, err
	}

	opts := &clickhouse.Options{
		Addr:     []string{net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))},
		Protocol: protocol,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: defaultDialTimeout,
	}
	if cfg.ClickHouse.DialTimeout > 0 {
		opts.DialTimeout = cfg.ClickHouse.DialTimeout
	}
	if cfg.ClickHouse.Compression {
		opts.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}
	return opts, nil
}

func parseProtocol(name string) (clickhouse.Protocol, error) {
	switch strings.ToLower(name) {
	case "", ProtocolNative:
		return clickhouse.Native, nil
	case ProtocolHTTP:
		return clickhouse.HTTP, nil
	default:
		return clickhouse.Native, fmt.Errorf("unsupported ClickHouse protocol: %s", name)
	}
}
