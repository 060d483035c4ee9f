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
	"errors"
	"time"

	"github.com/carverauto/internalize/pkg/logger"
	"github.com/carverauto/internalize/pkg/models"
)

var errEventsNeedNATS = errors.New("events are enabled but no nats config is set")

const (
	defaultAnchorPath     = "/"
	defaultRootNamePrefix = "PC"

	// The root scan is expected to hit on its first pass; the cap only
	// guarantees termination when no qualifying root ever appears.
	defaultRootScanAttempts = 1 << 20

	defaultRootGraceDelay = time.Second
	defaultPollInterval   = 10 * time.Millisecond

	// Attempt budgets at 10ms per poll: 60s for the selected root, 10s
	// per bridge, 20s per device.
	defaultRootConfigureAttempts   = 6000
	defaultBridgeConfigureAttempts = 1000
	defaultDeviceResourceAttempts  = 2000

	// Service-plane drivers attach late; repeat injection to catch them.
	defaultInjectionPasses = 3
	defaultPassDelay       = 100 * time.Millisecond
)

// Config holds every tunable of the traversal engine plus the daemon's
// registry source and reporting configuration.
type Config struct {
	AnchorPath     string `json:"anchor_path,omitempty"`
	RootNamePrefix string `json:"root_name_prefix,omitempty"`

	RootScanAttempts        int             `json:"root_scan_attempts,omitempty"`
	RootGraceDelay          models.Duration `json:"root_grace_delay,omitempty"`
	PollInterval            models.Duration `json:"poll_interval,omitempty"`
	RootConfigureAttempts   int             `json:"root_configure_attempts,omitempty"`
	BridgeConfigureAttempts int             `json:"bridge_configure_attempts,omitempty"`
	DeviceResourceAttempts  int             `json:"device_resource_attempts,omitempty"`
	InjectionPasses         int             `json:"injection_passes,omitempty"`
	PassDelay               models.Duration `json:"pass_delay,omitempty"`

	// Registry source: a JSON topology fixture or a sysfs-style tree.
	RegistryFixture string `json:"registry_fixture,omitempty"`
	SysfsRoot       string `json:"sysfs_root,omitempty"`

	Logging *logger.Config      `json:"logging,omitempty"`
	NATS    *models.NATSConfig  `json:"nats,omitempty"`
	Events  models.EventsConfig `json:"events"`
}

// Validate applies defaults and checks cross-field consistency.
func (c *Config) Validate() error {
	if c.AnchorPath == "" {
		c.AnchorPath = defaultAnchorPath
	}

	if c.RootNamePrefix == "" {
		c.RootNamePrefix = defaultRootNamePrefix
	}

	if c.RootScanAttempts <= 0 {
		c.RootScanAttempts = defaultRootScanAttempts
	}

	if time.Duration(c.RootGraceDelay) <= 0 {
		c.RootGraceDelay = models.Duration(defaultRootGraceDelay)
	}

	if time.Duration(c.PollInterval) <= 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if c.RootConfigureAttempts <= 0 {
		c.RootConfigureAttempts = defaultRootConfigureAttempts
	}

	if c.BridgeConfigureAttempts <= 0 {
		c.BridgeConfigureAttempts = defaultBridgeConfigureAttempts
	}

	if c.DeviceResourceAttempts <= 0 {
		c.DeviceResourceAttempts = defaultDeviceResourceAttempts
	}

	if c.InjectionPasses <= 0 {
		c.InjectionPasses = defaultInjectionPasses
	}

	if time.Duration(c.PassDelay) <= 0 {
		c.PassDelay = models.Duration(defaultPassDelay)
	}

	if err := c.Events.Validate(); err != nil {
		return err
	}

	if c.Events.Enabled {
		if c.NATS == nil {
			return errEventsNeedNATS
		}

		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}

	return nil
}
