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

package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-scatter/internal/config"
)

// Setting keys shared by flags, viper and the SCATTER_* environment.
const (
	keyConfig          = "config"
	keyOutputFormat    = "output-format"
	keyVerbose         = "verbose"
	keyLogFormat       = "log-format"
	keyKDFProfile      = "kdf-profile"
	keyMetricsTextfile = "metrics-textfile"
	keyFragments       = "fragments"
)

// envPrefix scopes the environment variables viper consults, so that
// --kdf-profile can also be set with SCATTER_KDF_PROFILE.
const envPrefix = "SCATTER"

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the YAML configuration file
	ConfigFile string

	// OutputFormat controls result formatting (text, json)
	OutputFormat string

	// Verbose forces debug logging
	Verbose bool

	// LogFormat overrides logging.format from the file
	LogFormat string

	// KDFProfile overrides kdf.profile from the file
	KDFProfile string

	// MetricsTextfile overrides metrics.textfile from the file
	MetricsTextfile string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: string(OutputFormatText),
	}
}

// resolve copies the effective settings out of v. Flags win over the
// environment, which wins over flag defaults.
func (c *Config) resolve(v *viper.Viper) {
	c.ConfigFile = v.GetString(keyConfig)
	c.OutputFormat = v.GetString(keyOutputFormat)
	c.Verbose = v.GetBool(keyVerbose)
	c.LogFormat = v.GetString(keyLogFormat)
	c.KDFProfile = v.GetString(keyKDFProfile)
	c.MetricsTextfile = v.GetString(keyMetricsTextfile)
}

// Load reads the configuration file and applies the command line
// overrides on top of it.
func (c *Config) Load() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}
	if c.KDFProfile != "" {
		cfg.KDF.Profile = c.KDFProfile
	}
	if c.MetricsTextfile != "" {
		cfg.Metrics.Textfile = c.MetricsTextfile
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
