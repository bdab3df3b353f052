// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-scatter.
//
// go-scatter is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads scatter settings from a YAML file and SCATTER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/kdf"
	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
	"github.com/jeremyhahn/go-scatter/pkg/bitio"
	"github.com/jeremyhahn/go-scatter/pkg/fragment"
)

// Environment variables applied on top of the file.
const (
	EnvLogLevel        = "SCATTER_LOG_LEVEL"
	EnvLogFormat       = "SCATTER_LOG_FORMAT"
	EnvKDFProfile      = "SCATTER_KDF_PROFILE"
	EnvBufferSize      = "SCATTER_BUFFER_SIZE"
	EnvMetricsTextfile = "SCATTER_METRICS_TEXTFILE"
)

// Log formats. FormatAuto picks text on a terminal and JSON otherwise.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the complete scatter configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	KDF     KDFConfig     `yaml:"kdf"`
	IO      IOConfig      `yaml:"io"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, text, json
}

// KDFConfig selects the key derivation cost. Memory, Time and Threads
// override the profile when non-zero. The same settings must be used to
// join as were used to split.
type KDFConfig struct {
	Profile string `yaml:"profile"` // interactive, moderate, sensitive
	Memory  uint32 `yaml:"memory_kib,omitempty"`
	Time    uint32 `yaml:"time,omitempty"`
	Threads uint8  `yaml:"threads,omitempty"`
}

// IOConfig controls file handling
type IOConfig struct {
	BufferSize int `yaml:"buffer_size"`
	Fragments  int `yaml:"fragments"`
}

// MetricsConfig controls metrics export
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatAuto,
		},
		KDF: KDFConfig{
			Profile: string(kdf.DefaultProfile),
		},
		IO: IOConfig{
			BufferSize: bitio.DefaultBlockSize,
			Fragments:  3,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by the user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		cfg.Logging.Format = format
	}
	if profile := os.Getenv(EnvKDFProfile); profile != "" {
		cfg.KDF.Profile = profile
	}
	if size := os.Getenv(EnvBufferSize); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n <= 0 {
			log.Printf("Warning: invalid %s value %q, using %d", EnvBufferSize, size, cfg.IO.BufferSize)
		} else {
			cfg.IO.BufferSize = n
		}
	}
	if path := os.Getenv(EnvMetricsTextfile); path != "" {
		cfg.Metrics.Textfile = path
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", FormatAuto, FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	if _, err := kdf.ParseProfile(c.KDF.Profile); err != nil {
		errs = append(errs, fmt.Errorf("kdf.profile: %w", err))
	} else {
		params := c.KDFParams().WithSalt(make([]byte, fragment.SaltSize))
		if err := kdf.NewArgon2idAdapter().ValidateParams(params); err != nil {
			errs = append(errs, fmt.Errorf("kdf: %w", err))
		}
	}

	if c.IO.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("io.buffer_size must be positive, got %d", c.IO.BufferSize))
	}
	if c.IO.Fragments != 0 {
		if err := fragment.ValidateCount(c.IO.Fragments); err != nil {
			errs = append(errs, fmt.Errorf("io.fragments: %w", err))
		}
	}

	return errors.Join(errs...)
}

// KDFParams returns the Argon2id parameters selected by the profile and any
// explicit overrides. The profile must already be valid.
func (c *Config) KDFParams() *kdf.KDFParams {
	profile, err := kdf.ParseProfile(c.KDF.Profile)
	if err != nil {
		profile = kdf.DefaultProfile
	}
	params := profile.Params()
	if c.KDF.Memory != 0 {
		params.Memory = c.KDF.Memory
	}
	if c.KDF.Time != 0 {
		params.Time = c.KDF.Time
	}
	if c.KDF.Threads != 0 {
		params.Threads = c.KDF.Threads
	}
	return params
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
