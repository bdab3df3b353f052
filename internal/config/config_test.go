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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/kdf"
	"github.com/jeremyhahn/go-scatter/pkg/bitio"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scatter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvLogFormat, EnvKDFProfile, EnvBufferSize, EnvMetricsTextfile} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, FormatAuto, cfg.Logging.Format)
	assert.Equal(t, string(kdf.ProfileSensitive), cfg.KDF.Profile)
	assert.Equal(t, bitio.DefaultBlockSize, cfg.IO.BufferSize)
	assert.Equal(t, 3, cfg.IO.Fragments)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
logging:
  level: debug
  format: json
kdf:
  profile: interactive
io:
  buffer_size: 65536
  fragments: 5
metrics:
  enabled: true
  textfile: /var/lib/node_exporter/scatter.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, FormatJSON, cfg.Logging.Format)
	assert.Equal(t, "interactive", cfg.KDF.Profile)
	assert.Equal(t, 65536, cfg.IO.BufferSize)
	assert.Equal(t, 5, cfg.IO.Fragments)
	assert.Equal(t, "/var/lib/node_exporter/scatter.prom", cfg.Metrics.Textfile)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "logging:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, bitio.DefaultBlockSize, cfg.IO.BufferSize)
	assert.Equal(t, string(kdf.DefaultProfile), cfg.KDF.Profile)
}

func TestLoad_EmptyPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "logging: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(writeConfig(t, "kdf:\n  profile: paranoid\n"))
	assert.ErrorIs(t, err, kdf.ErrUnknownProfile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "text")
	t.Setenv(EnvKDFProfile, "moderate")
	t.Setenv(EnvBufferSize, "1024")
	t.Setenv(EnvMetricsTextfile, "/tmp/scatter.prom")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, FormatText, cfg.Logging.Format)
	assert.Equal(t, "moderate", cfg.KDF.Profile)
	assert.Equal(t, 1024, cfg.IO.BufferSize)
	assert.Equal(t, "/tmp/scatter.prom", cfg.Metrics.Textfile)
}

func TestLoad_InvalidBufferSizeEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBufferSize, "lots")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, bitio.DefaultBlockSize, cfg.IO.BufferSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad profile", func(c *Config) { c.KDF.Profile = "fast" }, true},
		{"memory too low", func(c *Config) { c.KDF.Memory = 1 }, true},
		{"zero buffer", func(c *Config) { c.IO.BufferSize = 0 }, true},
		{"one fragment", func(c *Config) { c.IO.Fragments = 1 }, true},
		{"unset fragments", func(c *Config) { c.IO.Fragments = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKDFParams(t *testing.T) {
	cfg := Default()
	cfg.KDF.Profile = "interactive"
	params := cfg.KDFParams()
	assert.Equal(t, uint32(64*1024), params.Memory)
	assert.Equal(t, uint32(2), params.Time)

	cfg.KDF.Memory = 32 * 1024
	cfg.KDF.Time = 5
	cfg.KDF.Threads = 2
	params = cfg.KDFParams()
	assert.Equal(t, uint32(32*1024), params.Memory)
	assert.Equal(t, uint32(5), params.Time)
	assert.Equal(t, uint8(2), params.Threads)
	assert.Equal(t, kdf.AlgorithmArgon2id, params.Algorithm)
}

func TestSave(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.IO.Fragments = 4

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
