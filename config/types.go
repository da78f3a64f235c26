package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the root configuration of a reddwarf process. It is built once by Load
// and passed explicitly to the constructors that need it.
type Config struct {
	App      AppConfig      `koanf:"app" json:"app" yaml:"app" mapstructure:"app"`
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	k *koanf.Koanf
}

// AppConfig holds process identification settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" mapstructure:"name"`
	Version string `koanf:"version" json:"version" yaml:"version" mapstructure:"version"`
	Env     string `koanf:"env" json:"env" yaml:"env" mapstructure:"env"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Type     string `koanf:"type" json:"type" yaml:"type" mapstructure:"type"`
	Host     string `koanf:"host" json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `koanf:"port" json:"port" yaml:"port" mapstructure:"port"`
	Database string `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Username string `koanf:"username" json:"username" yaml:"username" mapstructure:"username"`
	Password string `koanf:"password" json:"password" yaml:"password" mapstructure:"password"`

	// Path is the database file for sqlite; ":memory:" opens a private in-memory database.
	Path string `koanf:"path" json:"path" yaml:"path" mapstructure:"path"`

	ConnectionString string `koanf:"connectionstring" json:"connectionstring" yaml:"connectionstring" mapstructure:"connectionstring"`

	Pool       PoolConfig       `koanf:"pool" json:"pool" yaml:"pool" mapstructure:"pool"`
	Query      QueryConfig      `koanf:"query" json:"query" yaml:"query" mapstructure:"query"`
	ClickHouse ClickHouseConfig `koanf:"clickhouse" json:"clickhouse" yaml:"clickhouse" mapstructure:"clickhouse"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	Max      PoolMaxConfig  `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
	Idle     PoolIdleConfig `koanf:"idle" json:"idle" yaml:"idle" mapstructure:"idle"`
	Lifetime LifetimeConfig `koanf:"lifetime" json:"lifetime" yaml:"lifetime" mapstructure:"lifetime"`
}

// PoolMaxConfig holds maximum connections settings.
type PoolMaxConfig struct {
	Connections int32 `koanf:"connections" json:"connections" yaml:"connections" mapstructure:"connections"`
}

// PoolIdleConfig holds idle connections settings.
type PoolIdleConfig struct {
	Connections int32         `koanf:"connections" json:"connections" yaml:"connections" mapstructure:"connections"`
	Time        time.Duration `koanf:"time" json:"time" yaml:"time" mapstructure:"time"`
}

// LifetimeConfig holds maximum lifetime settings for connections.
type LifetimeConfig struct {
	Max time.Duration `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
}

// QueryConfig holds settings related to query logging and slow query detection.
type QueryConfig struct {
	Slow SlowQueryConfig `koanf:"slow" json:"slow" yaml:"slow" mapstructure:"slow"`
	Log  QueryLogConfig  `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
}

// SlowQueryConfig holds settings for slow query detection.
type SlowQueryConfig struct {
	Threshold time.Duration `koanf:"threshold" json:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// QueryLogConfig holds settings for query logging.
type QueryLogConfig struct {
	Parameters bool `koanf:"parameters" json:"parameters" yaml:"parameters" mapstructure:"parameters"`
	MaxLength  int  `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
}

// ClickHouseConfig holds ClickHouse-specific settings.
type ClickHouseConfig struct {
	// Protocol is "native" (default) or "http".
	Protocol    string        `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol"`
	Compression bool          `koanf:"compression" json:"compression" yaml:"compression" mapstructure:"compression"`
	DialTimeout time.Duration `koanf:"dialtimeout" json:"dialtimeout" yaml:"dialtimeout" mapstructure:"dialtimeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// String returns the raw value at a dotted key path, including keys that have no
// struct field.
func (c *Config) String(path string) string {
	if c == nil || c.k == nil {
		return ""
	}
	return c.k.String(path)
}

// Exists reports whether any source set the dotted key path.
func (c *Config) Exists(path string) bool {
	if c == nil || c.k == nil {
		return false
	}
	return c.k.Exists(path)
}
