// Package config loads the optional TOML configuration file and merges it
// with command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/utils"
)

// Config holds the settings that may come from config.toml
type Config struct {
	// Database is a SQLite path, a *.json path, a PostgreSQL connection string or "keyring"
	Database string `toml:"database"`
	// Timezone is an IANA name used to key periods. Empty defers to the stored setting.
	Timezone string `toml:"timezone"`
	Debug    bool   `toml:"debug"`
	LogDir   string `toml:"log_dir"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Database: constants.DefaultConfigPath,
	}
}

// Load reads path. A missing file yields Default().
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, apperrors.NewConfigurationError("config key", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Save writes cfg to path as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	return nil
}

// Merge applies command line values over file values. Empty strings and a
// false debug flag leave the file value in place.
func (c *Config) Merge(database, timezone string, debug bool) {
	if database != "" {
		c.Database = database
	}
	if timezone != "" {
		c.Timezone = timezone
	}
	if debug {
		c.Debug = true
	}
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return apperrors.NewConfigurationError("database", c.Database)
	}
	if c.Timezone != "" {
		if _, err := utils.LoadLocation(c.Timezone); err != nil {
			return apperrors.NewConfigurationError("timezone", c.Timezone)
		}
	}
	return nil
}
