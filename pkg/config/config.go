/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads service configuration from JSON files or the
// environment behind a small ConfigLoader interface.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/carverauto/internalize/pkg/logger"
)

var (
	errInvalidConfigSource = errors.New("invalid CONFIG_SOURCE value")
	errLoadConfigFailed    = errors.New("failed to load configuration")
	errInvalidConfigPtr    = errors.New("config must be a non-nil pointer")
)

const (
	configSourceFile = "file"
	configSourceEnv  = "env"

	// envPrefix namespaces environment overrides, e.g. INTERNALIZE_NATS_URL.
	envPrefix = "INTERNALIZE_"
)

// ConfigLoader defines how raw configuration reaches a destination struct.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by config structs that check and default
// their own fields after loading.
type Validator interface {
	Validate() error
}

// Config holds the configuration loading dependencies.
type Config struct {
	defaultLoader ConfigLoader
	logger        logger.Logger
}

// NewConfig initializes a new Config instance with a default file loader.
// If log is nil, a no-op logger is used.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Config{
		defaultLoader: &FileConfigLoader{},
		logger:        log,
	}
}

// LoadAndValidate loads configuration into dst and runs its Validate
// hook if present. The loader is chosen by the CONFIG_SOURCE
// environment variable; the default is the JSON file loader.
func (c *Config) LoadAndValidate(ctx context.Context, path string, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errInvalidConfigPtr
	}

	loader, err := c.selectLoader()
	if err != nil {
		return err
	}

	if err := loader.Load(ctx, path, dst); err != nil {
		return fmt.Errorf("%w: %w", errLoadConfigFailed, err)
	}

	if validator, ok := dst.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	c.logger.Debug().Str("path", path).Msg("Loaded configuration")

	return nil
}

func (c *Config) selectLoader() (ConfigLoader, error) {
	switch source := os.Getenv("CONFIG_SOURCE"); source {
	case "", configSourceFile:
		return c.defaultLoader, nil
	case configSourceEnv:
		return NewEnvConfigLoader(c.logger, envPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidConfigSource, source)
	}
}
