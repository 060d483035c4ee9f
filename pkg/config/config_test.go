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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/internalize/pkg/models"
)

type testConfig struct {
	Name     string          `json:"name"`
	Attempts int             `json:"attempts"`
	Interval models.Duration `json:"interval"`
	NATS     *struct {
		URL string `json:"url"`
	} `json:"nats"`
	validated bool
}

func (c *testConfig) Validate() error {
	if c.Attempts == 0 {
		c.Attempts = 42
	}

	c.validated = true

	return nil
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateFromFile(t *testing.T) {
	path := writeTempConfig(t, `{"name":"walker","interval":"10ms"}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "walker", cfg.Name)
	assert.Equal(t, 10*time.Millisecond, time.Duration(cfg.Interval))
	assert.Equal(t, 42, cfg.Attempts, "Validate should default Attempts")
	assert.True(t, cfg.validated)
}

func TestLoadAndValidateDurationAsNanos(t *testing.T) {
	path := writeTempConfig(t, `{"interval":100000000}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, time.Duration(cfg.Interval))
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "/nonexistent/config.json", &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errLoadConfigFailed)
	assert.ErrorIs(t, err, errReadConfigFile)
}

func TestFileLoaderMalformedJSON(t *testing.T) {
	path := writeTempConfig(t, `{"name": "walker"`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errParseConfigFile)
}

func TestLoadAndValidateNonPointer(t *testing.T) {
	err := NewConfig(nil).LoadAndValidate(context.Background(), "ignored", testConfig{})
	assert.ErrorIs(t, err, errInvalidConfigPtr)
}

func TestLoadAndValidateInvalidSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "carrier-pigeon")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "ignored", &cfg)
	assert.ErrorIs(t, err, errInvalidConfigSource)
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("INTERNALIZE_NAME", "env-walker")
	t.Setenv("INTERNALIZE_ATTEMPTS", "7")
	t.Setenv("INTERNALIZE_INTERVAL", "250ms")
	t.Setenv("INTERNALIZE_NATS_URL", "nats://localhost:4222")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "env-walker", cfg.Name)
	assert.Equal(t, 7, cfg.Attempts)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Interval))
	require.NotNil(t, cfg.NATS)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("INTERNALIZE_CONFIG_JSON", `{"name":"blob","attempts":3}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "blob", cfg.Name)
	assert.Equal(t, 3, cfg.Attempts)
}
