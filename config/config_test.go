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

	"github.com/suparena/recordstore/errors"
)

var configEnvVars = []string{
	"RECORDSTORE_FILE", "RECORDSTORE_BACKEND", "RECORDSTORE_LOG_LEVEL", "RECORDSTORE_LOG_FORMAT",
	"AWS_REGION", "AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_DDB_TABLE", "AWS_DDB_ENDPOINT",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "file.json", cfg.FilePath)
	assert.Equal(t, BackendFile, cfg.Backend)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "recordstore.yaml", `
backend: dynamodb
log_level: debug
dynamodb:
  region: eu-west-1
  table: records
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "eu-west-1", cfg.DynamoDB.Region)
	assert.Equal(t, "records", cfg.DynamoDB.Table)
	assert.Equal(t, "file.json", cfg.FilePath, "unset keys keep their default")
}

func TestEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "recordstore.yaml", "file_path: from-yaml.json\n")
	t.Setenv("RECORDSTORE_FILE", "from-env.json")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.FilePath)
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "RECORDSTORE_LOG_FORMAT=json\nRECORDSTORE_FILE=dotenv.json\n")
	t.Setenv("RECORDSTORE_FILE", "process.json")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "process.json", cfg.FilePath, "process environment wins over .env")
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "backend: [file"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "redis" }, "backend"},
		{"empty file path", func(c *Config) { c.FilePath = "" }, "file_path"},
		{"dynamodb without table", func(c *Config) { c.Backend = BackendDynamoDB }, "dynamodb.table"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.True(t, errors.IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, err.(*errors.ValidationError).Field)
		})
	}

	assert.NoError(t, Default().Validate())
}
