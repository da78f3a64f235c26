package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/logger"
)

// Connection wraps a types.Interface and tracks every operation that reaches the
// database. Health, Stats and Close pass through untracked.
type Connection struct {
	conn     types.Interface
	logger   logger.Logger
	vendor   string
	settings Settings

	serverAddress string
	serverPort    int
	namespace     string
}

var _ types.Interface = (*Connection)(nil)

// NewConnection wraps conn. The vendor is taken from conn.DatabaseType() and the
// settings from cfg.
func NewConnection(conn types.Interface, log logger.Logger, cfg *config.DatabaseConfig) *Connection {
	tc := &Connection{
		conn:     conn,
		logger:   log,
		vendor:   conn.DatabaseType(),
		settings: NewSettings(cfg),
	}
	if cfg != nil {
		tc.serverAddress = cfg.Host
		tc.serverPort = cfg.Port
		tc.namespace = cfg.Database
	}
	return tc
}

// Query executes a query with performance tracking
func (tc *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := tc.conn.Query(ctx, query, args...)
	tc.trackOperation(ctx, query, args, start, 0, err)
	return rows, err
}

// Exec executes a statement with performance tracking
func (tc *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := tc.conn.Exec(ctx, query, args...)
	tc.trackOperation(ctx, query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

// Prepare prepares a statement; executions of the statement are tracked too.
func (tc *Connection) Prepare(ctx context.Context, query string) (types.PreparedStatement, error) {
	start := time.Now()
	stmt, err := tc.conn.Prepare(ctx, query)
	tc.trackOperation(ctx, prefixPrep+query, nil, start, 0, err)
	if err != nil {
		return nil, err
	}
	return NewStatement(stmt, tc.context(""), query), nil
}

// Begin starts a tracked transaction.
func (tc *Connection) Begin(ctx context.Context) (types.Tx, error) {
	return tc.BeginTx(ctx, nil)
}

// BeginTx starts a tracked transaction with options. All operations of the
// transaction share a generated transaction id in their logs and spans.
func (tc *Connection) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	start := time.Now()
	var (
		tx  types.Tx
		err error
	)
	if opts == nil {
		tx, err = tc.conn.Begin(ctx)
	} else {
		tx, err = tc.conn.BeginTx(ctx, opts)
	}

	tctx := tc.context(uuid.NewString())
	TrackDBOperation(ctx, tctx, opBegin, nil, start, 0, err)
	if err != nil {
		return nil, err
	}
	return NewTransaction(ctx, tx, tctx), nil
}

func (tc *Connection) Health(ctx context.Context) error {
	return tc.conn.Health(ctx)
}

func (tc *Connection) Stats() (map[string]any, error) {
	return tc.conn.Stats()
}

func (tc *Connection) Close() error {
	return tc.conn.Close()
}

func (tc *Connection) DatabaseType() string {
	return tc.conn.DatabaseType()
}

func (tc *Connection) Dialect() types.Dialect {
	return tc.conn.Dialect()
}

func (tc *Connection) context(txID string) *Context {
	return &Context{
		Logger:        tc.logger,
		Vendor:        tc.vendor,
		Settings:      tc.settings,
		TxID:          txID,
		ServerAddress: tc.serverAddress,
		ServerPort:    tc.serverPort,
		Namespace:     tc.namespace,
	}
}

func (tc *Connection) trackOperation(ctx context.Context, query string, args []any, start time.Time, rowsAffected int64, err error) {
	TrackDBOperation(ctx, tc.context(""), query, args, start, rowsAffected, err)
}
