package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/mocks"
	"github.com/reddwarf-io/reddwarf/database/types"
)

func testConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Type:     types.VendorClickHouse,
		Host:     "ch.local",
		Port:     9000,
		Database: "analytics",
		Username: "default",
		Password: "secret",
	}
}

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*config.DatabaseConfig)
		protocol    clickhouse.Protocol
		compression bool
		dialTimeout time.Duration
		wantErr     bool
	}{
		{name: "defaults", protocol: clickhouse.Native, dialTimeout: defaultDialTimeout},
		{
			name: "http with compression",
			mutate: func(c *config.DatabaseConfig) {
				c.ClickHouse = config.ClickHouseConfig{Protocol: "HTTP", Compression: true, DialTimeout: 3 * time.Second}
			},
			protocol:    clickhouse.HTTP,
			compression: true,
			dialTimeout: 3 * time.Second,
		},
		{
			name:    "unknown protocol",
			mutate:  func(c *config.DatabaseConfig) { c.ClickHouse.Protocol = "grpc" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			opts, err := BuildOptions(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"ch.local:9000"}, opts.Addr)
			assert.Equal(t, tt.protocol, opts.Protocol)
			assert.Equal(t, "analytics", opts.Auth.Database)
			assert.Equal(t, "default", opts.Auth.Username)
			assert.Equal(t, "secret", opts.Auth.Password)
			assert.Equal(t, tt.dialTimeout, opts.DialTimeout)
			assert.Equal(t, tt.compression, opts.Compression != nil)
		})
	}
}

func TestBuildOptionsConnectionString(t *testing.T) {
	opts, err := BuildOptions(&config.DatabaseConfig{ConnectionString: "clickhouse://u:p@host1:9000/logs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"host1:9000"}, opts.Addr)
	assert.Equal(t, "logs", opts.Auth.Database)
	assert.Equal(t, "u", opts.Auth.Username)

	_, err = BuildOptions(&config.DatabaseConfig{ConnectionString: "://bad"})
	assert.Error(t, err)
}

func TestNewConnection(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	origOpen, origPing := openClickHouseDB, pingClickHouseDB
	t.Cleanup(func() { openClickHouseDB, pingClickHouseDB = origOpen, origPing })

	var got *clickhouse.Options
	openClickHouseDB = func(opts *clickhouse.Options) *sql.DB {
		got = opts
		return db
	}
	pingClickHouseDB = func(context.Context, *sql.DB) error { return nil }

	conn, err := NewConnection(testConfig(), &mocks.Logger{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.ClickHouse, conn.Dialect())
	assert.Equal(t, types.VendorClickHouse, conn.DatabaseType())
}

func TestNewConnectionPingFailure(t *testing.T) {
	db, sm, err := sqlmock.New()
	require.NoError(t, err)
	sm.ExpectClose()

	origOpen, origPing := openClickHouseDB, pingClickHouseDB
	t.Cleanup(func() { openClickHouseDB, pingClickHouseDB = origOpen, origPing })
	openClickHouseDB = func(*clickhouse.Options) *sql.DB { return db }
	pingClickHouseDB = func(context.Context, *sql.DB) error { return errors.New("timeout") }

	_, err = NewConnection(testConfig(), &mocks.Logger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping clickhouse database")
	require.NoError(t, sm.ExpectationsWereMet())
}
