/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to connect repositories to DynamoDB.
type Config struct {
	AWS     AWSConfig     `yaml:"aws"`
	Tables  TablesConfig  `yaml:"tables"`
	Query   QueryConfig   `yaml:"query"`
	Logging LoggingConfig `yaml:"logging"`
}

// AWSConfig selects the region, endpoint and credentials.
type AWSConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // e.g. http://localhost:8000 for DynamoDB Local
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	MaxRetries      int    `yaml:"max_retries"` // SDK retryer attempts; the repository itself never retries
}

// TablesConfig maps entity types to table names.
type TablesConfig struct {
	Prefix    string            `yaml:"prefix"`
	Overrides map[string]string `yaml:"overrides"` // Go type name -> table name
}

// QueryConfig sets read behavior and the repository-wide scan switches.
type QueryConfig struct {
	ConsistentReads  bool  `yaml:"consistent_reads"`
	PageSize         int32 `yaml:"page_size"`
	ScanEnabled      bool  `yaml:"scan_enabled"`
	ScanCountEnabled bool  `yaml:"scan_count_enabled"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns defaults suitable for a production deployment.
func DefaultConfig() Config {
	return Config{
		AWS: AWSConfig{
			Region:     "us-east-1",
			MaxRetries: 3,
		},
		Query: QueryConfig{
			PageSize: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.AWS.Region == "" {
		errs = append(errs, errors.New("aws.region is required"))
	}
	if (c.AWS.AccessKeyID == "") != (c.AWS.SecretAccessKey == "") {
		errs = append(errs, errors.New("aws.access_key_id and aws.secret_access_key must be set together"))
	}
	if c.AWS.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("aws.max_retries must not be negative, got %d", c.AWS.MaxRetries))
	}
	if c.Query.PageSize < 0 {
		errs = append(errs, fmt.Errorf("query.page_size must not be negative, got %d", c.Query.PageSize))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// TableName returns the configured table for a Go type name, with the prefix applied.
func (c Config) TableName(typeName, fallback string) string {
	name := fallback
	if n, ok := c.Tables.Overrides[typeName]; ok && n != "" {
		name = n
	}
	return c.Tables.Prefix + name
}

// Load reads a YAML file over the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromEnv loads .env files (missing files are ignored) and builds the
// configuration from the environment over the defaults.
func FromEnv(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Environment variables read by ApplyEnv.
const (
	EnvRegion           = "AWS_REGION"
	EnvAccessKeyID      = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey  = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken     = "AWS_SESSION_TOKEN"
	EnvEndpoint         = "DYNAMODB_ENDPOINT"
	EnvTablePrefix      = "DYNAMOREPO_TABLE_PREFIX"
	EnvConsistentReads  = "DYNAMOREPO_CONSISTENT_READS"
	EnvPageSize         = "DYNAMOREPO_PAGE_SIZE"
	EnvScanEnabled      = "DYNAMOREPO_SCAN_ENABLED"
	EnvScanCountEnabled = "DYNAMOREPO_SCAN_COUNT_ENABLED"
	EnvLogLevel         = "DYNAMOREPO_LOG_LEVEL"
)

// ApplyEnv overrides fields from set, non-empty environment variables.
func (c *Config) ApplyEnv() error {
	setString(&c.AWS.Region, EnvRegion)
	setString(&c.AWS.AccessKeyID, EnvAccessKeyID)
	setString(&c.AWS.SecretAccessKey, EnvSecretAccessKey)
	setString(&c.AWS.SessionToken, EnvSessionToken)
	setString(&c.AWS.Endpoint, EnvEndpoint)
	setString(&c.Tables.Prefix, EnvTablePrefix)
	setString(&c.Logging.Level, EnvLogLevel)

	for env, dst := range map[string]*bool{
		EnvConsistentReads:  &c.Query.ConsistentReads,
		EnvScanEnabled:      &c.Query.ScanEnabled,
		EnvScanCountEnabled: &c.Query.ScanCountEnabled,
	} {
		if v := os.Getenv(env); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env, err)
			}
			*dst = b
		}
	}

	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPageSize, err)
		}
		c.Query.PageSize = int32(n)
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
