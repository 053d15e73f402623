/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int32(100), cfg.Query.PageSize)
	assert.False(t, cfg.Query.ScanEnabled)
	assert.False(t, cfg.Query.ScanCountEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"missing region", func(c *Config) { c.AWS.Region = "" }, "aws.region is required"},
		{"half credentials", func(c *Config) { c.AWS.AccessKeyID = "AKIA" }, "must be set together"},
		{"negative retries", func(c *Config) { c.AWS.MaxRetries = -1 }, "aws.max_retries"},
		{"negative page size", func(c *Config) { c.Query.PageSize = -5 }, "query.page_size"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aws:
  region: eu-west-1
  endpoint: http://localhost:8000
tables:
  prefix: dev_
  overrides:
    Order: orders
query:
  consistent_reads: true
  scan_count_enabled: true
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "http://localhost:8000", cfg.AWS.Endpoint)
	assert.Equal(t, 3, cfg.AWS.MaxRetries, "defaults survive partial files")
	assert.True(t, cfg.Query.ConsistentReads)
	assert.True(t, cfg.Query.ScanCountEnabled)
	assert.Equal(t, "dev_orders", cfg.TableName("Order", "Order"))
	assert.Equal(t, "dev_User", cfg.TableName("User", "User"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aws: [unclosed"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DYNAMOREPO_TABLE_PREFIX=test_\nDYNAMOREPO_PAGE_SIZE=25\n"), 0o600))

	t.Setenv(EnvRegion, "ap-south-1")
	t.Setenv(EnvScanEnabled, "true")
	t.Setenv(EnvTablePrefix, "")
	t.Setenv(EnvPageSize, "")
	os.Unsetenv(EnvTablePrefix)
	os.Unsetenv(EnvPageSize)

	cfg, err := FromEnv(envFile, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", cfg.AWS.Region)
	assert.Equal(t, "test_", cfg.Tables.Prefix)
	assert.Equal(t, int32(25), cfg.Query.PageSize)
	assert.True(t, cfg.Query.ScanEnabled)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv(EnvConsistentReads, "sometimes")
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.ApplyEnv(), EnvConsistentReads)
}
