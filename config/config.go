package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is read by Load when present.
const DefaultFile = "config.yaml"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. config.<env>.yaml, then config.yaml
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadWithFlags(DefaultFile, nil)
}

// LoadFile is Load with an explicit YAML file. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags loads path like LoadFile and then applies the flags of fs that were
// explicitly set. Flag names map to keys by replacing "-" with ".", so
// --database-host overrides database.host.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := loadOptionalFile(k, path); err != nil {
			return nil, err
		}
	}

	if env := k.String("app.env"); env != "" && path != "" {
		envFile := strings.TrimSuffix(path, ".yaml") + "." + env + ".yaml"
		if err := loadOptionalFile(k, envFile); err != nil {
			return nil, err
		}
	}

	// DATABASE_QUERY_SLOW_THRESHOLD -> database.query.slow.threshold
	if err := k.Load(envprovider.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var envSections = []string{"app_", "database_", "log_"}

// envKey maps an environment variable to its config key. Variables outside the
// known sections are skipped.
func envKey(name string) string {
	name = strings.ToLower(name)
	for _, prefix := range envSections {
		if strings.HasPrefix(name, prefix) {
			return strings.ReplaceAll(name, "_", ".")
		}
	}
	return ""
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	err := k.Load(file.Provider(path), yaml.Parser())
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("could not load %s: %w", path, err)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "reddwarf",
		"app.version": "v0.1.0",
		"app.env":     EnvDevelopment,

		// Database stays unset until configured explicitly.

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
