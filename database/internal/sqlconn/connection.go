// Package sqlconn implements types.Interface over a *sql.DB for every database/sql driver
// reddwarf supports. Vendor packages only build the DSN and open the pool.
package sqlconn

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/logger"
)

const (
	connectTimeout = 10 * time.Second
	healthTimeout  = 5 * time.Second
)

// PingFunc verifies a freshly opened pool. Vendor packages expose theirs as a variable
// so tests can replace it.
type PingFunc func(ctx context.Context, db *sql.DB) error

// DefaultPing pings through database/sql.
func DefaultPing(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

// Connection implements types.Interface on a *sql.DB.
type Connection struct {
	db      *sql.DB
	vendor  string
	dialect types.Dialect
	logger  logger.Logger
}

var _ types.Interface = (*Connection)(nil)

// New wraps an open pool. It fails when vendor has no SQL dialect.
func New(db *sql.DB, vendor string, log logger.Logger) (*Connection, error) {
	dialect, err := types.DialectForVendor(vendor)
	if err != nil {
		return nil, err
	}
	return &Connection{db: db, vendor: vendor, dialect: dialect, logger: log}, nil
}

// Establish applies the pool settings of cfg to db, pings it and wraps it. The pool is
// closed when the ping fails.
func Establish(db *sql.DB, vendor string, cfg *config.DatabaseConfig, log logger.Logger, ping PingFunc) (*Connection, error) {
	ApplyPool(db, cfg.Pool)

	if ping == nil {
		ping = DefaultPing
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := ping(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("vendor", vendor).Msg("Failed to close database pool after ping failure")
		}
		return nil, fmt.Errorf("failed to ping %s database: %w", vendor, err)
	}

	conn, err := New(db, vendor, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().
		Str("vendor", vendor).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msgf("Connected to %s database", vendor)

	return conn, nil
}

// ApplyPool sets pool limits. Zero values leave the database/sql defaults.
func ApplyPool(db *sql.DB, pool config.PoolConfig) {
	if pool.Max.Connections > 0 {
		db.SetMaxOpenConns(int(pool.Max.Connections))
	}
	if pool.Idle.Connections > 0 {
		db.SetMaxIdleConns(int(pool.Idle.Connections))
	}
	if pool.Lifetime.Max > 0 {
		db.SetConnMaxLifetime(pool.Lifetime.Max)
	}
	if pool.Idle.Time > 0 {
		db.SetConnMaxIdleTime(pool.Idle.Time)
	}
}

// Statement wraps sql.Stmt to implement types.PreparedStatement
type Statement struct {
	stmt *sql.Stmt
}

func (s *Statement) Query(ctx context.Context, args ...any) (*sql.Rows, error) {
	return s.stmt.QueryContext(ctx, args...)
}

func (s *Statement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

func (s *Statement) Close() error {
	return s.stmt.Close()
}

// Transaction wraps sql.Tx to implement types.Tx
type Transaction struct {
	tx *sql.Tx
}

func (t *Transaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *Transaction) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Transaction) Prepare(ctx context.Context, query string) (types.PreparedStatement, error) {
	stmt, err := t.tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Statement{stmt: stmt}, nil
}

func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// Query executes a query that returns rows
func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

// Exec executes a query without returning any rows
func (c *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

// Prepare creates a prepared statement for later queries or executions
func (c *Connection) Prepare(ctx context.Context, query string) (types.PreparedStatement, error) {
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Statement{stmt: stmt}, nil
}

// Begin starts a transaction
func (c *Connection) Begin(ctx context.Context) (types.Tx, error) {
	return c.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options
func (c *Connection) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	tx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Transaction{tx: tx}, nil
}

// Health pings the database with a short timeout.
func (c *Connection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return c.db.PingContext(ctx)
}

// Stats returns database connection statistics
func (c *Connection) Stats() (map[string]any, error) {
	stats := c.db.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_idle_time_closed": stats.MaxIdleTimeClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}, nil
}

// Close closes the pool.
func (c *Connection) Close() error {
	c.logger.Info().Str("vendor", c.vendor).Msg("Closing database connection")
	return c.db.Close()
}

func (c *Connection) DatabaseType() string {
	return c.vendor
}

func (c *Connection) Dialect() types.Dialect {
	return c.dialect
}

// DB exposes the underlying pool.
func (c *Connection) DB() *sql.DB {
	return c.db
}
