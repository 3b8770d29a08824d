/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/recordstore/errors"
)

// Backend names accepted in Config.Backend.
const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// Config holds everything needed to open a record store.
type Config struct {
	// FilePath is the backing file of the file backend.
	FilePath  string `yaml:"file_path" env:"RECORDSTORE_FILE"`
	Backend   string `yaml:"backend" env:"RECORDSTORE_BACKEND"`
	LogLevel  string `yaml:"log_level" env:"RECORDSTORE_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"RECORDSTORE_LOG_FORMAT"`

	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
}

// DynamoDBConfig configures the dynamodb backend.
type DynamoDBConfig struct {
	Region    string `yaml:"region" env:"AWS_REGION"`
	AccessKey string `yaml:"access_key" env:"AWS_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"AWS_SECRET_KEY"`
	Table     string `yaml:"table" env:"AWS_DDB_TABLE"`
	Endpoint  string `yaml:"endpoint" env:"AWS_DDB_ENDPOINT"`
}

// Default returns the built-in configuration: a file.json in the working
// directory and info level text logs.
func Default() Config {
	return Config{
		FilePath:  "file.json",
		Backend:   BackendFile,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if
// path is not empty), then the dotenv file envFile (if it exists), then the
// process environment. Later layers win.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can open a store.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendFile:
		if c.FilePath == "" {
			return errors.NewValidationError("file_path", "must not be empty for the file backend")
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb.table", "must not be empty for the dynamodb backend")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.NewValidationError("log_format", fmt.Sprintf("unknown log format %q", c.LogFormat))
	}
	return nil
}
