// Package config resolves CLI settings from crosstalk.yaml, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvVault    = "CROSSTALK_VAULT"
	EnvAdapter  = "CROSSTALK_ADAPTER"
	EnvFormat   = "CROSSTALK_FORMAT"
	EnvLogLevel = "CROSSTALK_LOG_LEVEL"
)

// Config is the resolved project configuration.
type Config struct {
	Vault    string `yaml:"vault"`
	Adapter  string `yaml:"adapter"`
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Vault:    ".",
		Adapter:  "fs",
		Format:   "json",
		LogLevel: "info",
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// only an error when required is set. A relative vault is resolved against
// the file's directory.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Vault != "" && !filepath.IsAbs(file.Vault) {
		file.Vault = filepath.Join(filepath.Dir(path), file.Vault)
	}
	cfg.merge(file)
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is ignored.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields with the CROSSTALK_* variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := Config{}
	env.Vault, _ = lookup(EnvVault)
	env.Adapter, _ = lookup(EnvAdapter)
	env.Format, _ = lookup(EnvFormat)
	env.LogLevel, _ = lookup(EnvLogLevel)
	c.merge(env)
}

// Validate rejects values no adapter understands.
func (c Config) Validate() error {
	switch c.Adapter {
	case "fs", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
	switch c.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// Level maps LogLevel onto slog. Unknown values mean info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) merge(o Config) {
	if o.Vault != "" {
		c.Vault = o.Vault
	}
	if o.Adapter != "" {
		c.Adapter = strings.ToLower(o.Adapter)
	}
	if o.Format != "" {
		c.Format = strings.ToLower(o.Format)
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}
