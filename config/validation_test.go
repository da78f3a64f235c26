package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "svc", Env: EnvProduction},
		Log: LogConfig{Level: "info"},
	}
}

func TestValidateDatabase(t *testing.T) {
	tests := []struct {
		name  string
		db    DatabaseConfig
		field string
	}{
		{name: "missing type", db: DatabaseConfig{Host: "h"}, field: "database.type"},
		{name: "unknown type", db: DatabaseConfig{Type: "oracle", Host: "h"}, field: "database.type"},
		{name: "missing host", db: DatabaseConfig{Type: "mysql", Database: "d", Username: "u"}, field: "database.host"},
		{name: "missing name", db: DatabaseConfig{Type: "mysql", Host: "h", Username: "u"}, field: "database.database"},
		{name: "missing user", db: DatabaseConfig{Type: "mysql", Host: "h", Database: "d"}, field: "database.username"},
		{name: "missing sqlite path", db: DatabaseConfig{Type: "sqlite"}, field: "database.path"},
		{name: "bad port", db: DatabaseConfig{Type: "mysql", Host: "h", Database: "d", Username: "u", Port: 70000}, field: "database.port"},
		{name: "bad protocol", db: DatabaseConfig{Type: "clickhouse", Host: "h", Database: "d", Username: "u", ClickHouse: ClickHouseConfig{Protocol: "grpc"}}, field: "database.clickhouse.protocol"},
		{
			name:  "negative threshold",
			db:    DatabaseConfig{Type: "sqlite", Path: ":memory:", Query: QueryConfig{Slow: SlowQueryConfig{Threshold: -time.Second}}},
			field: "database.query.slow.threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database = tt.db

			err := Validate(cfg)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidateConnectionStringSkipsCoreFields(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Type: "mysql", ConnectionString: "user:pw@tcp(localhost:3306)/app"}

	require.NoError(t, Validate(cfg))
	assert.Equal(t, int32(defaultIdleConns), cfg.Database.Pool.Idle.Connections)
	assert.Equal(t, defaultConnLifetime, cfg.Database.Pool.Lifetime.Max)
}

func TestValidateClampsIdleToMax(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Type: "sqlite", Path: ":memory:", Pool: PoolConfig{Max: PoolMaxConfig{Connections: 1}}}

	require.NoError(t, Validate(cfg))
	assert.Equal(t, int32(1), cfg.Database.Pool.Idle.Connections)
}

func TestValidateApp(t *testing.T) {
	cfg := validConfig()
	cfg.App.Env = "qa"
	err := Validate(cfg)
	assert.ErrorContains(t, err, "must be one of: development, staging, production")

	cfg = validConfig()
	cfg.App.Name = ""
	assert.ErrorContains(t, Validate(cfg), "config_missing: app.name required")
}

func TestValidateLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, Validate(cfg), "log.level")
}

func TestNotConfiguredError(t *testing.T) {
	err := NewNotConfiguredError("database", "DATABASE_TYPE", "database.type")
	assert.True(t, IsNotConfigured(err))
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.False(t, IsNotConfigured(NewValidationError("x", "y")))
	assert.False(t, IsNotConfigured(nil))
	assert.Equal(t, "config_not_configured: database (optional) to enable: set DATABASE_TYPE env var or add database.type to config.yaml", err.Error())
}
