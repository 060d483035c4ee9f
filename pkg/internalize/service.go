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

// Package internalize walks the host device registry at attach time
// and rewrites storage-device metadata so SATA, NVMe and RAID devices
// report as internal. Failures degrade to skipping a single entry or
// subtree; the walk itself never aborts.
package internalize

import (
	"context"
	"time"

	"github.com/carverauto/internalize/pkg/logger"
	"github.com/carverauto/internalize/pkg/models"
	"github.com/carverauto/internalize/pkg/registry"
)

// Reporter receives one record per internalized device and a summary
// per walk. Implementations must tolerate being called from the walk's
// single thread of control; errors are logged, never escalated.
type Reporter interface {
	DeviceInternalized(ctx context.Context, data models.DeviceInternalizedData) error
	WalkCompleted(ctx context.Context, data models.WalkSummaryData) error
}

type noopReporter struct{}

func (noopReporter) DeviceInternalized(context.Context, models.DeviceInternalizedData) error {
	return nil
}

func (noopReporter) WalkCompleted(context.Context, models.WalkSummaryData) error {
	return nil
}

// Service drives the traversal-and-mutation engine over an injected
// registry. It holds no state between runs; the only durable effect of
// a run is the property writes on registry entries.
type Service struct {
	cfg      *Config
	registry registry.Registry
	clock    Clock
	reporter Reporter
	log      logger.Logger

	stats models.WalkSummaryData
}

// New creates a Service. A nil clock defaults to the real clock and a
// nil reporter to a no-op; cfg is validated and defaulted in place.
func New(cfg *Config, reg registry.Registry, clk Clock, rep Reporter, log logger.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if clk == nil {
		clk = realClock{}
	}

	if rep == nil {
		rep = noopReporter{}
	}

	return &Service{
		cfg:      cfg,
		registry: reg,
		clock:    clk,
		reporter: rep,
		log:      log,
	}, nil
}

// Run performs one full walk: locate the PCI root, wait for it to be
// configured, then descend its bridge hierarchy. The returned summary
// mirrors what the reporter receives. Run never fails; a missing root
// or a timed-out subtree is logged and reflected in the summary.
func (s *Service) Run(ctx context.Context) models.WalkSummaryData {
	s.stats = models.WalkSummaryData{}

	s.log.Info().Msg("starting registry walk")

	if root := s.locateSecondaryRoot(); root != nil {
		s.stats.RootFound = true

		outcome := awaitProperty(s.clock, root, registry.PropConfigured,
			time.Duration(s.cfg.PollInterval), s.cfg.RootConfigureAttempts)
		if outcome == Ready {
			s.walkBridge(ctx, root)
		} else {
			s.log.Warn().Str("root", root.Name()).Msg("timeout waiting for PCI root configuration")
		}
	} else {
		s.log.Warn().Msg("no PCI root located; nothing to do")
	}

	s.stats.Timestamp = s.clock.Now()

	if err := s.reporter.WalkCompleted(ctx, s.stats); err != nil {
		s.log.Error().Err(err).Msg("failed to report walk summary")
	}

	s.log.Info().
		Int("devices_internalized", s.stats.DevicesInternalized).
		Int("bridges_walked", s.stats.BridgesWalked).
		Int("bridge_timeouts", s.stats.BridgeTimeouts).
		Int("device_timeouts", s.stats.DeviceTimeouts).
		Msg("registry walk complete")

	return s.stats
}
