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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carverauto/internalize/pkg/logger"
	"github.com/carverauto/internalize/pkg/models"
	"github.com/carverauto/internalize/pkg/registry"
)

// fakeClock records sleeps instead of performing them. The onSleep
// hook stands in for the host's background configuration actor
// mutating the registry while the engine waits.
type fakeClock struct {
	now     time.Time
	sleeps  []time.Duration
	onSleep func(d time.Duration)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)

	if c.onSleep != nil {
		c.onSleep(d)
	}
}

func (c *fakeClock) sleepCount(d time.Duration) int {
	n := 0

	for _, s := range c.sleeps {
		if s == d {
			n++
		}
	}

	return n
}

// recordingReporter captures everything the engine reports.
type recordingReporter struct {
	devices   []models.DeviceInternalizedData
	summaries []models.WalkSummaryData
}

func (r *recordingReporter) DeviceInternalized(_ context.Context, data models.DeviceInternalizedData) error {
	r.devices = append(r.devices, data)
	return nil
}

func (r *recordingReporter) WalkCompleted(_ context.Context, data models.WalkSummaryData) error {
	r.summaries = append(r.summaries, data)
	return nil
}

// Distinct test durations so sleeps can be attributed to a wait site.
const (
	testPollInterval   = time.Millisecond
	testRootGraceDelay = 5 * time.Millisecond
	testPassDelay      = 7 * time.Millisecond
)

func testServiceConfig() *Config {
	return &Config{
		RootScanAttempts:        4,
		RootGraceDelay:          models.Duration(testRootGraceDelay),
		PollInterval:            models.Duration(testPollInterval),
		RootConfigureAttempts:   5,
		BridgeConfigureAttempts: 5,
		DeviceResourceAttempts:  5,
		PassDelay:               models.Duration(testPassDelay),
	}
}

func newTestService(t *testing.T, reg registry.Registry, clk Clock, rep Reporter) *Service {
	t.Helper()

	svc, err := New(testServiceConfig(), reg, clk, rep, logger.NewTestLogger())
	require.NoError(t, err)

	return svc
}

// storageDevice builds a ready storage device entry with nested
// service-plane drivers.
func storageDevice(name string, code uint32, resourced bool, drivers ...*registry.MemoryEntry) *registry.MemoryEntry {
	dev := registry.NewEntry(name)
	dev.SetProperty(registry.PropClassCode, registry.EncodeClassCode(code))

	if resourced {
		dev.SetProperty(registry.PropResourced, true)
	}

	for _, d := range drivers {
		dev.AddChild(registry.PlaneService, d)
	}

	return dev
}

func configuredBridge(name string) *registry.MemoryEntry {
	b := registry.NewEntry(name)
	b.SetProperty(registry.PropClassCode, registry.EncodeClassCode(0x060400))
	b.SetProperty(registry.PropConfigured, true)

	return b
}

func hasBuiltIn(t *testing.T, e registry.Entry) bool {
	t.Helper()

	v, ok := e.Property(registry.PropBuiltIn)
	if !ok {
		return false
	}

	b, isBlob := v.([]byte)

	return isBlob && len(b) == 1 && b[0] == 0x01
}

func interconnectOf(e registry.Entry) (string, bool) {
	v, ok := e.Property(registry.PropInterconnect)
	if !ok {
		return "", false
	}

	s, isStr := v.(string)

	return s, isStr
}
