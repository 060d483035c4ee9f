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
	"fmt"
	"time"

	"github.com/carverauto/internalize/pkg/models"
	"github.com/carverauto/internalize/pkg/registry"
)

const (
	interconnectInternal = "Internal"
	internalIconFile     = "Internal.icns"
)

// internalizeDevice runs the per-device sequence: force the built-in
// marker, wait for the device to be resourced, then inject metadata
// over the device and its service-plane descendants for several
// passes. A resource timeout leaves the device partially processed
// (built-in set, nothing else) and moves on.
func (s *Service) internalizeDevice(ctx context.Context, entry registry.Entry, code uint32) {
	setBuiltIn(entry)

	outcome := awaitProperty(s.clock, entry, registry.PropResourced,
		time.Duration(s.cfg.PollInterval), s.cfg.DeviceResourceAttempts)
	if outcome == TimedOut {
		s.stats.DeviceTimeouts++
		s.log.Warn().
			Str("device", entry.Name()).
			Msg("timeout waiting for device resources; leaving device partially processed")
		s.reportDevice(ctx, entry, code, false, 0, 0)

		return
	}

	passes := s.cfg.InjectionPasses
	updated := 0

	for pass := 0; pass < passes; pass++ {
		s.injectInternalMarkers(entry)

		// Service-plane drivers layered on the device, recursively.
		updated = 0

		for _, desc := range entry.Descendants(registry.PlaneService) {
			if desc == entry {
				continue
			}

			s.injectInternalMarkers(desc)

			updated++
		}

		// Let late-attaching drivers appear before the next pass; the
		// final pass has no trailing delay.
		if pass < passes-1 {
			s.clock.Sleep(time.Duration(s.cfg.PassDelay))
		}
	}

	s.stats.DevicesInternalized++
	s.log.Info().
		Str("device", entry.Name()).
		Int("service_entries", updated).
		Msg("device internalized")
	s.reportDevice(ctx, entry, code, true, passes, updated)
}

// injectInternalMarkers applies the idempotent metadata writes to one
// entry. Every sub-step is independently best-effort; a missing or
// oddly typed property never blocks the others.
func (s *Service) injectInternalMarkers(entry registry.Entry) {
	entry.SetProperty(registry.PropInterconnect, interconnectInternal)

	// Icon override is copy-on-write: the original dictionary may be
	// shared between entries.
	if v, ok := entry.Property(registry.PropMediaIcon); ok {
		if dict, isDict := v.(registry.Dict); isDict {
			icon := dict.Clone()
			icon[registry.PropIconResource] = internalIconFile
			entry.SetProperty(registry.PropMediaIcon, icon)
		}
	}

	if v, ok := entry.Property(registry.PropProtocolChars); ok {
		if dict, isDict := v.(registry.Dict); isDict {
			proto := dict.Clone()
			proto[registry.PropInterconnect] = interconnectInternal
			entry.SetProperty(registry.PropProtocolChars, proto)
		}
	} else {
		entry.SetProperty(registry.PropProtocolChars,
			registry.Dict{registry.PropInterconnect: interconnectInternal})
	}

	setBuiltIn(entry)
}

// setBuiltIn force-writes the built-in marker blob, overwriting any
// existing value.
func setBuiltIn(entry registry.Entry) {
	entry.SetProperty(registry.PropBuiltIn, []byte{0x01})
}

func (s *Service) reportDevice(ctx context.Context, entry registry.Entry, code uint32, resourced bool, passes, updated int) {
	data := models.DeviceInternalizedData{
		DeviceName:            entry.Name(),
		ClassCode:             classCodeString(code),
		Classification:        Classify(code).String(),
		Resourced:             resourced,
		Passes:                passes,
		ServiceEntriesUpdated: updated,
		Timestamp:             s.clock.Now(),
	}

	if err := s.reporter.DeviceInternalized(ctx, data); err != nil {
		s.log.Error().Err(err).Str("device", entry.Name()).Msg("failed to report device event")
	}
}

func classCodeString(code uint32) string {
	return fmt.Sprintf("0x%06x", code)
}
