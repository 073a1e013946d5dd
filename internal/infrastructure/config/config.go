// Package config loads paybook settings from .paybook/paybook.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/paybook/pkg/storage"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Config holds workspace settings.
type Config struct {
	DataFile      string `yaml:"data_file" json:"data_file"`
	SlipDir       string `yaml:"slip_dir" json:"slip_dir"`
	SlipFormat    string `yaml:"slip_format" json:"slip_format"`
	Currency      string `yaml:"currency" json:"currency"`
	Actor         string `yaml:"actor,omitempty" json:"actor,omitempty"`
	AuditDisabled bool   `yaml:"audit_disabled,omitempty" json:"audit_disabled,omitempty"`
}

const configSchemaJSON = `{
  "type": "object",
  "properties": {
    "data_file":      {"type": "string", "minLength": 1},
    "slip_dir":       {"type": "string", "minLength": 1},
    "slip_format":    {"type": "string", "enum": ["txt", "pdf"]},
    "currency":       {"type": "string", "maxLength": 8},
    "actor":          {"type": "string"},
    "audit_disabled": {"type": "boolean"}
  },
  "required": ["data_file", "slip_dir", "slip_format"]
}`

var configSchemaLoader = gojsonschema.NewStringLoader(configSchemaJSON)

func Default() Config {
	return Config{
		DataFile:   storage.DefaultDataFile,
		SlipDir:    ".",
		SlipFormat: storage.SlipText,
		Currency:   "Rs",
	}
}

// Load reads the config file under root, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(root string) (Config, error) {
	cfg := Default()

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return cfg, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to the config file under root.
func Save(root string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		return err
	}
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks cfg against the config schema.
func (c Config) Validate() error {
	result, err := gojsonschema.Validate(configSchemaLoader, gojsonschema.NewGoLoader(c))
	if err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataFile = getEnv("PAYBOOK_DATA_FILE", c.DataFile)
	c.SlipDir = getEnv("PAYBOOK_SLIP_DIR", c.SlipDir)
	c.SlipFormat = getEnv("PAYBOOK_SLIP_FORMAT", c.SlipFormat)
	c.Currency = getEnv("PAYBOOK_CURRENCY", c.Currency)
	c.Actor = getEnv("PAYBOOK_ACTOR", c.Actor)
	c.AuditDisabled = getEnvBool("PAYBOOK_AUDIT_DISABLED", c.AuditDisabled)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
