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

package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

var errFixtureNoTopology = errors.New("fixture has no topology root")

// FixtureEntry is the JSON shape of one registry entry in a topology
// fixture file. Children hang in the topology plane, service entries
// in the service plane.
type FixtureEntry struct {
	Name       string                 `json:"name"`
	ClassCode  string                 `json:"class_code,omitempty"`
	Configured bool                   `json:"configured,omitempty"`
	Resourced  bool                   `json:"resourced,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Children   []FixtureEntry         `json:"children,omitempty"`
	Service    []FixtureEntry         `json:"service,omitempty"`
}

// Fixture is the top-level JSON shape of a topology fixture file.
type Fixture struct {
	Topology *FixtureEntry `json:"topology"`
}

// LoadFixture reads a JSON topology fixture and builds an in-memory
// registry with the fixture's root as the topology anchor.
func LoadFixture(path string) (*MemoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture '%s': %w", path, err)
	}

	return ParseFixture(data)
}

// ParseFixture builds an in-memory registry from fixture JSON.
func ParseFixture(data []byte) (*MemoryRegistry, error) {
	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture: %w", err)
	}

	if fixture.Topology == nil {
		return nil, errFixtureNoTopology
	}

	root, err := buildEntry(fixture.Topology)
	if err != nil {
		return nil, err
	}

	reg := NewMemoryRegistry()
	reg.SetRoot(PlaneTopology, root)

	return reg, nil
}

func buildEntry(fe *FixtureEntry) (*MemoryEntry, error) {
	entry := NewEntry(fe.Name)

	if fe.ClassCode != "" {
		code, err := strconv.ParseUint(fe.ClassCode, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("entry %q: bad class_code %q: %w", fe.Name, fe.ClassCode, err)
		}

		entry.SetProperty(PropClassCode, EncodeClassCode(uint32(code)))
	}

	if fe.Configured {
		entry.SetProperty(PropConfigured, true)
	}

	if fe.Resourced {
		entry.SetProperty(PropResourced, true)
	}

	for k, v := range fe.Properties {
		entry.SetProperty(k, fixtureValue(v))
	}

	for i := range fe.Children {
		child, err := buildEntry(&fe.Children[i])
		if err != nil {
			return nil, err
		}

		entry.AddChild(PlaneTopology, child)
	}

	for i := range fe.Service {
		svc, err := buildEntry(&fe.Service[i])
		if err != nil {
			return nil, err
		}

		entry.AddChild(PlaneService, svc)
	}

	return entry, nil
}

// fixtureValue maps decoded JSON values onto registry property types.
func fixtureValue(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return Dict(m)
	}

	return v
}
