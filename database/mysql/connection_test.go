package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/mocks"
	"github.com/reddwarf-io/reddwarf/database/types"
)

func testConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Type:     types.VendorMySQL,
		Host:     "db.local",
		Port:     3306,
		Database: "app",
		Username: "svc",
		Password: "p@ss:word",
		Pool:     config.PoolConfig{Max: config.PoolMaxConfig{Connections: 5}},
	}
}

func stubDriver(t *testing.T, db *sql.DB, pingErr error) *string {
	t.Helper()
	var gotDSN string
	origOpen, origPing := openMySQLDB, pingMySQLDB
	openMySQLDB = func(dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	}
	pingMySQLDB = func(context.Context, *sql.DB) error { return pingErr }
	t.Cleanup(func() {
		openMySQLDB, pingMySQLDB = origOpen, origPing
	})
	return &gotDSN
}

func TestBuildDSN(t *testing.T) {
	dsn, err := BuildDSN(testConfig())
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "svc", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "db.local:3306", parsed.Addr)
	assert.Equal(t, "app", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestBuildDSNConnectionString(t *testing.T) {
	cfg := &config.DatabaseConfig{ConnectionString: "root:secret@tcp(127.0.0.1:3307)/test"}
	dsn, err := BuildDSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.ConnectionString, dsn)

	_, err = BuildDSN(&config.DatabaseConfig{ConnectionString: "not a dsn"})
	assert.Error(t, err)
}

func TestNewConnection(t *testing.T) {
	db, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gotDSN := stubDriver(t, db, nil)

	conn, err := NewConnection(testConfig(), &mocks.Logger{})
	require.NoError(t, err)
	assert.Contains(t, *gotDSN, "tcp(db.local:3306)/app")
	assert.Equal(t, types.VendorMySQL, conn.DatabaseType())
	assert.Equal(t, types.MySQL, conn.Dialect())
	assert.Equal(t, 5, conn.DB().Stats().MaxOpenConnections)
	require.NoError(t, sm.ExpectationsWereMet())
}

func TestNewConnectionPingFailure(t *testing.T) {
	db, sm, err := sqlmock.New()
	require.NoError(t, err)
	sm.ExpectClose()

	stubDriver(t, db, errors.New("connection refused"))

	conn, err := NewConnection(testConfig(), &mocks.Logger{})
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "connection refused")
	require.NoError(t, sm.ExpectationsWereMet())
}

func TestNewConnectionOpenFailure(t *testing.T) {
	origOpen := openMySQLDB
	t.Cleanup(func() { openMySQLDB = origOpen })
	openMySQLDB = func(string) (*sql.DB, error) { return nil, errors.New("unknown driver") }

	_, err := NewConnection(testConfig(), &mocks.Logger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open MySQL database")
}
