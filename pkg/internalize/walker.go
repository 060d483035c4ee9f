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
	"context"
	"strings"
	"time"

	"github.com/carverauto/internalize/pkg/registry"
)

// locateSecondaryRoot scans the top-level topology entries for the
// platform's PCI root. The first matching entry only arms the scan
// after a one-time grace delay (letting the remaining roots finish
// arbitration); the next matching entry found after that is the
// target. The pass cap guarantees termination when no qualifying
// entry ever appears.
func (s *Service) locateSecondaryRoot() registry.Entry {
	anchor, ok := s.registry.Lookup(s.cfg.AnchorPath, registry.PlaneTopology)
	if !ok {
		s.log.Warn().Str("path", s.cfg.AnchorPath).Msg("topology anchor not found")
		return nil
	}

	ready := false

	for pass := 0; pass < s.cfg.RootScanAttempts; pass++ {
		for _, child := range anchor.Children(registry.PlaneTopology) {
			if !strings.HasPrefix(child.Name(), s.cfg.RootNamePrefix) {
				continue
			}

			if ready {
				s.log.Debug().Str("root", child.Name()).Msg("found PCI root")
				return child
			}

			s.clock.Sleep(time.Duration(s.cfg.RootGraceDelay))

			ready = true
		}
	}

	return nil
}

// walkBridge recursively walks a bridge's topology children. Storage
// devices are handed to the orchestrator; nested bridges are entered
// once configured. A timed-out bridge abandons its subtree only,
// never its siblings, and the walk mutates entry properties but never
// the shape of the graph.
func (s *Service) walkBridge(ctx context.Context, bridge registry.Entry) {
	s.stats.BridgesWalked++

	for _, child := range bridge.Children(registry.PlaneTopology) {
		v, ok := child.Property(registry.PropClassCode)
		if !ok {
			continue
		}

		code, ok := registry.DecodeClassCode(v)
		if !ok {
			continue
		}

		switch Classify(code) {
		case SATA, NVMe, RAIDController:
			s.log.Debug().
				Str("device", child.Name()).
				Str("class_code", classCodeString(code)).
				Msg("found storage device")

			// Every matching child under the bridge gets processed.
			s.internalizeDevice(ctx, child, code)

		case PCIBridge:
			s.log.Debug().Str("bridge", child.Name()).Msg("found bridge")

			outcome := awaitProperty(s.clock, child, registry.PropConfigured,
				time.Duration(s.cfg.PollInterval), s.cfg.BridgeConfigureAttempts)
			if outcome == Ready {
				s.walkBridge(ctx, child)
			} else {
				s.stats.BridgeTimeouts++
				s.log.Warn().
					Str("bridge", child.Name()).
					Msg("timeout waiting for bridge configuration; skipping subtree")
			}

		case Other:
			// Not ours.
		}
	}
}
