package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/reddwarf-io/reddwarf/database/types"
)

// Statement wraps a prepared statement and tracks each execution under the text it
// was prepared with.
type Statement struct {
	stmt  types.PreparedStatement
	tc    *Context
	query string
}

var _ types.PreparedStatement = (*Statement)(nil)

// NewStatement wraps stmt, which was prepared from query.
func NewStatement(stmt types.PreparedStatement, tc *Context, query string) *Statement {
	return &Statement{stmt: stmt, tc: tc, query: query}
}

func (s *Statement) Query(ctx context.Context, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.stmt.Query(ctx, args...)
	TrackDBOperation(ctx, s.tc, prefixStmt+s.query, args, start, 0, err)
	return rows, err
}

func (s *Statement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := s.stmt.Exec(ctx, args...)
	TrackDBOperation(ctx, s.tc, prefixStmt+s.query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

func (s *Statement) Close() error {
	return s.stmt.Close()
}
