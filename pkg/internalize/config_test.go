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

package internalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/internalize/pkg/models"
)

func TestConfigValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/", cfg.AnchorPath)
	assert.Equal(t, "PC", cfg.RootNamePrefix)
	assert.Equal(t, 1<<20, cfg.RootScanAttempts)
	assert.Equal(t, time.Second, time.Duration(cfg.RootGraceDelay))
	assert.Equal(t, 10*time.Millisecond, time.Duration(cfg.PollInterval))
	assert.Equal(t, 6000, cfg.RootConfigureAttempts)
	assert.Equal(t, 1000, cfg.BridgeConfigureAttempts)
	assert.Equal(t, 2000, cfg.DeviceResourceAttempts)
	assert.Equal(t, 3, cfg.InjectionPasses)
	assert.Equal(t, 100*time.Millisecond, time.Duration(cfg.PassDelay))
}

func TestConfigValidateKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		RootNamePrefix:          "XB",
		BridgeConfigureAttempts: 17,
		InjectionPasses:         1,
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "XB", cfg.RootNamePrefix)
	assert.Equal(t, 17, cfg.BridgeConfigureAttempts)
	assert.Equal(t, 1, cfg.InjectionPasses)
}

func TestConfigValidateEventsRequireNATS(t *testing.T) {
	cfg := &Config{Events: models.EventsConfig{Enabled: true}}

	err := cfg.Validate()
	assert.ErrorIs(t, err, errEventsNeedNATS)
}

func TestConfigValidateEventsWithNATS(t *testing.T) {
	cfg := &Config{
		Events: models.EventsConfig{Enabled: true},
		NATS:   &models.NATSConfig{URL: "nats://localhost:4222"},
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "events", cfg.Events.StreamName)
	assert.Equal(t, []string{"events.device.*"}, cfg.Events.Subjects)
}

func TestConfigValidateEventsDisabledSkipsNATSCheck(t *testing.T) {
	cfg := &Config{Events: models.EventsConfig{Enabled: false}}

	assert.NoError(t, cfg.Validate())
}
