// Package config loads the settings of the bigint command from a YAML file.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/govalues/bigint"
)

// Log levels accepted by [Config.LogLevel].
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var errInvalidConfig = errors.New("invalid config")

// Config is the root of the configuration file:
//
//	pool:
//	  batch_size: 100
//	  max_blocks: 0
//	log_level: info
type Config struct {
	Pool     bigint.PoolConfig `yaml:"pool"`
	LogLevel string            `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Pool:     bigint.DefaultPoolConfig(),
		LogLevel: LevelInfo,
	}
}

// Load reads the configuration file at path on top of [Default].
// Keys missing from the file keep their default values; unknown keys are rejected.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrapf(err, "parse config %v", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %v", path)
	}
	return cfg, nil
}

// Validate checks the pool settings and the log level.
func (cfg Config) Validate() error {
	if err := cfg.Pool.Validate(); err != nil {
		return err
	}
	switch cfg.LogLevel {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return errors.Wrapf(errInvalidConfig, "unknown log level %q", cfg.LogLevel)
	}
	return nil
}
