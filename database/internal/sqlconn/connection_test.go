package sqlconn

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/mocks"
	"github.com/reddwarf-io/reddwarf/database/types"
)

func TestConnectionBasicMethodsWithSQLMock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	c, err := New(db, types.VendorMySQL, &mocks.Logger{})
	require.NoError(t, err)

	ctx := context.Background()

	mock.ExpectPing()
	require.NoError(t, c.Health(ctx))

	mock.ExpectExec("INSERT INTO items").WithArgs("a").WillReturnResult(sqlmock.NewResult(1, 1))
	_, err = c.Exec(ctx, "INSERT INTO items (name) VALUES (?)", "a")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "x")
	mock.ExpectQuery("SELECT id, name FROM items").WillReturnRows(rows)
	rs, err := c.Query(ctx, "SELECT id, name FROM items")
	require.NoError(t, err)
	assert.True(t, rs.Next())
	require.NoError(t, rs.Close())

	mock.ExpectPrepare("UPDATE items SET name").ExpectExec().WithArgs("b", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	st, err := c.Prepare(ctx, "UPDATE items SET name = ? WHERE id = ?")
	require.NoError(t, err)
	_, err = st.Exec(ctx, "b", 1)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO items").ExpectExec().WithArgs(2).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	tx, err := c.Begin(ctx)
	require.NoError(t, err)
	txStmt, err := tx.Prepare(ctx, "INSERT INTO items (id) VALUES (?)")
	require.NoError(t, err)
	_, err = txStmt.Exec(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx2, err := c.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	require.NoError(t, err)
	require.NoError(t, tx2.Rollback())

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Contains(t, stats, "max_open_connections")
	assert.Contains(t, stats, "in_use")
	assert.Contains(t, stats, "wait_duration")

	mock.ExpectClose()
	require.NoError(t, c.Close())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRejectsVendorWithoutDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, "oracle", &mocks.Logger{})
	assert.Error(t, err)
}

func TestConnectionMetadata(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c, err := New(db, types.VendorClickHouse, &mocks.Logger{})
	require.NoError(t, err)

	assert.Equal(t, types.VendorClickHouse, c.DatabaseType())
	assert.Equal(t, types.ClickHouse, c.Dialect())
	assert.Same(t, db, c.DB())
}

func TestEstablish(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		Database: "app",
		Pool: config.PoolConfig{
			Max:      config.PoolMaxConfig{Connections: 7},
			Idle:     config.PoolIdleConfig{Connections: 3, Time: time.Minute},
			Lifetime: config.LifetimeConfig{Max: time.Hour},
		},
	}

	t.Run("success", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		log := mocks.NewRecordingLogger()
		pinged := false
		conn, err := Establish(db, types.VendorMySQL, cfg, log, func(context.Context, *sql.DB) error {
			pinged = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, pinged)
		assert.Equal(t, 7, conn.DB().Stats().MaxOpenConnections)
		assert.Equal(t, "Connected to mysql database", log.Last().Message)
	})

	t.Run("ping failure closes pool", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		_, err = Establish(db, types.VendorMySQL, cfg, &mocks.Logger{}, func(context.Context, *sql.DB) error {
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ping mysql database")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
