// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads CLI configuration from defaults, an optional YAML file,
// a .env file in the working directory, DB_* environment variables and
// explicitly set flags, in increasing priority.
// Secrets saved by `connect` live in the OS keychain, not here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"metroline/cli/internal/dsn"
	"metroline/cli/internal/xdg"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DotEnvFile holds DB_* settings read from the working directory.
const DotEnvFile = ".env"

// Log levels accepted by log_level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string   `koanf:"log_level"`
	DB       DBConfig `koanf:"db"`

	// File is the config file that was read, empty when none was.
	File string `koanf:"-"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	DSN         string `koanf:"dsn"`
	Host        string `koanf:"host"`
	Port        string `koanf:"port"`
	User        string `koanf:"user"`
	Password    string `koanf:"password"`
	Name        string `koanf:"name"`
	SSLMode     string `koanf:"sslmode"`
	TablePrefix string `koanf:"table_prefix"`
}

// Fields returns the discrete connection settings for dsn.Build.
func (c DBConfig) Fields() dsn.Fields {
	return dsn.Fields{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Name,
		SSLMode:  c.SSLMode,
	}
}

func defaults() map[string]any {
	return map[string]any{
		"log_level":       "info",
		"db.host":         "localhost",
		"db.port":         dsn.DefaultPort,
		"db.sslmode":      "disable",
		"db.table_prefix": "",
	}
}

// envKeys maps DB_* variables to config keys.
var envKeys = map[string]string{
	"DB_DSN":          "db.dsn",
	"DB_HOST":         "db.host",
	"DB_PORT":         "db.port",
	"DB_USER":         "db.user",
	"DB_PASSWORD":     "db.password",
	"DB_NAME":         "db.name",
	"DB_DB":           "db.name",
	"DB_SSLMODE":      "db.sslmode",
	"DB_TABLE_PREFIX": "db.table_prefix",
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"dsn":          "db.dsn",
	"table-prefix": "db.table_prefix",
	"log-level":    "log_level",
}

// Load reads configuration. An empty path falls back to the default config
// file, which may be absent; an explicit path must exist.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used, err := loadFile(k, path)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(k, DotEnvFile); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("DB_", ".", dbEnvKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if err := k.Load(env.Provider("METROLINE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "METROLINE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// dbEnvKey maps a DB_* variable to its config key. DB_DB is an alias that
// yields to DB_NAME when both are set.
func dbEnvKey(name string) string {
	if name == "DB_DB" && os.Getenv("DB_NAME") != "" {
		return ""
	}
	return envKeys[name]
}

// loadDotEnv overlays the DB_* entries of a .env file, mapped like the
// environment. Other entries are ignored; a missing file is not an error.
func loadDotEnv(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	raw := koanf.New(".")
	if err := raw.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	vals := make(map[string]any)
	for name, v := range raw.All() {
		if name == "DB_DB" && raw.Exists("DB_NAME") {
			continue
		}
		if key := dbEnvKey(name); key != "" {
			vals[key] = v
		}
	}
	if err := k.Load(confmap.Provider(vals, "."), nil); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

func loadFile(k *koanf.Koanf, path string) (string, error) {
	explicit := path != ""
	if !explicit {
		p, err := xdg.ConfigFile()
		if err != nil {
			return "", nil
		}
		path = p
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return "", fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return path, nil
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: want one of %s", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	return nil
}

// ResolveDSN picks the connection string: an explicit db.dsn, then the
// saved one, then one built from the discrete db.* settings.
func (c *Config) ResolveDSN(saved string) (string, error) {
	if c.DB.DSN != "" {
		return dsn.Normalize(c.DB.DSN)
	}
	if saved != "" {
		return saved, nil
	}
	return dsn.Build(c.DB.Fields())
}
