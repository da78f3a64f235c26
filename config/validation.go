package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	defaultMaxQueryLength     = 1000

	defaultMaxConns     = 25
	defaultIdleConns    = 2
	defaultIdleTime     = 5 * time.Minute
	defaultConnLifetime = 30 * time.Minute

	defaultMySQLPort      = 3306
	defaultClickHousePort = 9000

	clickHouseNative = "native"
	clickHouseHTTP   = "http"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// Validate checks cfg and fills database defaults in place.
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return NewMissingFieldError("app.name", "APP_NAME", "app.name")
	}

	validEnvs := []string{EnvDevelopment, EnvStaging, EnvProduction}
	if !slices.Contains(validEnvs, cfg.Env) {
		return NewInvalidFieldError("app.env", fmt.Sprintf("invalid environment: %s", cfg.Env), validEnvs)
	}

	return nil
}

// IsDatabaseConfigured reports whether any database setting was provided.
func IsDatabaseConfigured(cfg *DatabaseConfig) bool {
	return cfg.ConnectionString != "" || cfg.Host != "" || cfg.Type != "" || cfg.Path != ""
}

func validateDatabase(cfg *DatabaseConfig) error {
	if !IsDatabaseConfigured(cfg) {
		return nil
	}

	if err := validateDatabaseType(cfg.Type); err != nil {
		return err
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return NewInvalidFieldError("database.port", fmt.Sprintf("invalid database port: %d", cfg.Port), nil)
	}

	if cfg.ConnectionString == "" {
		if err := validateDatabaseCoreFields(cfg); err != nil {
			return err
		}
	}

	if cfg.Type == dbtypes.VendorClickHouse {
		if err := validateClickHouse(&cfg.ClickHouse); err != nil {
			return err
		}
	}

	return applyDatabaseDefaults(cfg)
}

func validateDatabaseType(dbType string) error {
	validTypes := []string{dbtypes.VendorMySQL, dbtypes.VendorClickHouse, dbtypes.VendorSQLite}
	if dbType == "" {
		return NewMissingFieldError("database.type", "DATABASE_TYPE", "database.type")
	}
	if !slices.Contains(validTypes, dbType) {
		return NewInvalidFieldError("database.type", fmt.Sprintf("invalid database type: %s", dbType), validTypes)
	}
	return nil
}

func validateDatabaseCoreFields(cfg *DatabaseConfig) error {
	if cfg.Type == dbtypes.VendorSQLite {
		if cfg.Path == "" {
			return NewMissingFieldError("database.path", "DATABASE_PATH", "database.path")
		}
		return nil
	}

	if cfg.Host == "" {
		return NewMissingFieldError("database.host", "DATABASE_HOST", "database.host")
	}

	if cfg.Database == "" {
		return NewMissingFieldError("database.database", "DATABASE_DATABASE", "database.database")
	}

	if cfg.Username == "" {
		return NewMissingFieldError("database.username", "DATABASE_USERNAME", "database.username")
	}

	return nil
}

func validateClickHouse(cfg *ClickHouseConfig) error {
	switch cfg.Protocol {
	case "":
		cfg.Protocol = clickHouseNative
	case clickHouseNative, clickHouseHTTP:
	default:
		return NewInvalidFieldError("database.clickhouse.protocol",
			fmt.Sprintf("invalid protocol: %s", cfg.Protocol), []string{clickHouseNative, clickHouseHTTP})
	}
	if cfg.DialTimeout < 0 {
		return NewValidationError("database.clickhouse.dialtimeout", "must not be negative")
	}
	return nil
}

// applyDatabaseDefaults fills zero pool, port and query settings. Negative values
// are rejected rather than replaced.
func applyDatabaseDefaults(cfg *DatabaseConfig) error {
	if cfg.Port == 0 {
		switch cfg.Type {
		case dbtypes.VendorMySQL:
			cfg.Port = defaultMySQLPort
		case dbtypes.VendorClickHouse:
			cfg.Port = defaultClickHousePort
		}
	}

	switch {
	case cfg.Pool.Max.Connections < 0:
		return NewValidationError("database.pool.max.connections", "must not be negative")
	case cfg.Pool.Max.Connections == 0:
		cfg.Pool.Max.Connections = defaultMaxConns
	}

	switch {
	case cfg.Pool.Idle.Connections < 0:
		return NewValidationError("database.pool.idle.connections", "must not be negative")
	case cfg.Pool.Idle.Connections == 0:
		cfg.Pool.Idle.Connections = defaultIdleConns
	}
	if cfg.Pool.Idle.Connections > cfg.Pool.Max.Connections {
		cfg.Pool.Idle.Connections = cfg.Pool.Max.Connections
	}

	switch {
	case cfg.Pool.Idle.Time < 0:
		return NewValidationError("database.pool.idle.time", "must not be negative")
	case cfg.Pool.Idle.Time == 0:
		cfg.Pool.Idle.Time = defaultIdleTime
	}

	switch {
	case cfg.Pool.Lifetime.Max < 0:
		return NewValidationError("database.pool.lifetime.max", "must not be negative")
	case cfg.Pool.Lifetime.Max == 0:
		cfg.Pool.Lifetime.Max = defaultConnLifetime
	}

	switch {
	case cfg.Query.Slow.Threshold < 0:
		return NewValidationError("database.query.slow.threshold", "must not be negative")
	case cfg.Query.Slow.Threshold == 0:
		cfg.Query.Slow.Threshold = defaultSlowQueryThreshold
	}

	switch {
	case cfg.Query.Log.MaxLength < 0:
		return NewValidationError("database.query.log.max", "must not be negative")
	case cfg.Query.Log.MaxLength == 0:
		cfg.Query.Log.MaxLength = defaultMaxQueryLength
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	cfg.Level = strings.ToLower(cfg.Level)
	if !slices.Contains(validLogLevels, cfg.Level) {
		return NewInvalidFieldError("log.level", fmt.Sprintf("invalid log level: %s", cfg.Level), validLogLevels)
	}
	return nil
}
