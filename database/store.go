package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reddwarf-io/reddwarf/database/internal/columns"
	"github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/logger"
)

// Store runs built statements against an executor. Reads go straight to the executor;
// every mutation runs in its own transaction that is committed on success and rolled
// back on any failure.
type Store struct {
	db      Interface
	builder *StatementBuilder
	logger  logger.Logger
}

// NewStore creates a Store for db. Statements are rendered in db.Dialect().
func NewStore(db Interface, log logger.Logger, opts ...Option) *Store {
	return &Store{
		db:      db,
		builder: NewStatementBuilder(db.Dialect(), opts...),
		logger:  log,
	}
}

// Builder returns the statement builder the store renders with.
func (s *Store) Builder() *StatementBuilder {
	return s.builder
}

// SelectOne returns the first record of q, or sql.ErrNoRows when there is none.
func (s *Store) SelectOne(ctx context.Context, q SelectQuery) (Record, error) {
	records, err := s.SelectMany(ctx, q)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, sql.ErrNoRows
	}
	return records[0], nil
}

// SelectMany returns every record of q.
func (s *Store) SelectMany(ctx context.Context, q SelectQuery) ([]Record, error) {
	st, err := s.builder.BuildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", q.Table, err)
	}
	return scanRecords(rows)
}

// InsertOne inserts a single row.
func (s *Store) InsertOne(ctx context.Context, table string, row Row) (int64, error) {
	return s.InsertMany(ctx, table, []Row{row})
}

// InsertMany inserts rows in one transaction and returns the number of inserted rows.
// An empty batch returns 0 without touching the database.
//
// ClickHouse batches are prepared once and executed per row; other dialects run a
// single multi-row statement.
func (s *Store) InsertMany(ctx context.Context, table string, rows []Row) (int64, error) {
	ins, err := s.builder.BuildInsert(table, rows)
	if err != nil {
		return 0, err
	}
	if ins.Noop() {
		return 0, nil
	}

	if s.builder.Dialect() == types.ClickHouse {
		return s.inTx(ctx, func(tx Tx) (int64, error) {
			return execBatch(ctx, tx, ins)
		})
	}

	st, err := s.builder.BindRows(ins)
	if err != nil {
		return 0, err
	}
	return s.inTx(ctx, func(tx Tx) (int64, error) {
		return execAffected(ctx, tx, st)
	})
}

// InsertStructs inserts records whose fields carry `db:"column"` tags. records may be
// a struct, a pointer to one, or a slice of either.
func (s *Store) InsertStructs(ctx context.Context, table string, records any) (int64, error) {
	rows, err := columns.Rows(records)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrInvalidInstruction, err)
	}
	return s.InsertMany(ctx, table, rows)
}

// UpdateMany sets data on every row matching where. An empty where is rejected
// before the database is touched.
func (s *Store) UpdateMany(ctx context.Context, table string, where Conditions, data Row) (int64, error) {
	st, err := s.builder.BuildUpdate(table, where, data)
	if err != nil {
		return 0, err
	}
	return s.inTx(ctx, func(tx Tx) (int64, error) {
		return execAffected(ctx, tx, st)
	})
}

// RemoveMany deletes every row matching where. An empty where is rejected.
func (s *Store) RemoveMany(ctx context.Context, table string, where Conditions) (int64, error) {
	st, err := s.builder.BuildDelete(table, where)
	if err != nil {
		return 0, err
	}
	return s.inTx(ctx, func(tx Tx) (int64, error) {
		return execAffected(ctx, tx, st)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx Tx) (int64, error)) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	n, err := fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return n, nil
}

func execAffected(ctx context.Context, tx Tx, st Statement) (int64, error) {
	res, err := tx.Exec(ctx, st.SQL, st.Args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func execBatch(ctx context.Context, tx Tx, ins InsertStatement) (int64, error) {
	stmt, err := tx.Prepare(ctx, ins.SQL)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var n int64
	for _, args := range ins.RowArgs() {
		if _, err := stmt.Exec(ctx, args...); err != nil {
			return n, fmt.Errorf("insert row %d into %s: %w", n, ins.Table, err)
		}
		n++
	}
	return n, nil
}
