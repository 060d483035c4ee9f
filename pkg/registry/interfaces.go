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

// Package registry models the host-owned hierarchical device registry:
// entries with parent/child relations in independent planes plus
// per-entry associative property storage. The host's background
// configuration actor mutates the tree concurrently, so every read is
// a snapshot that may be stale the instant it returns.
package registry

// Plane names an independent parent/child relationship graph over the
// same set of entries.
type Plane string

const (
	// PlaneTopology is the physical bus/device tree.
	PlaneTopology Plane = "IODeviceTree"
	// PlaneService is the driver attachment graph.
	PlaneService Plane = "IOService"
)

// Host-managed property names shared by adapters and the engine.
// Property values are bool, string, []byte or Dict.
const (
	PropClassCode     = "class-code"
	PropConfigured    = "IOPCIConfigured"
	PropResourced     = "IOPCIResourced"
	PropBuiltIn       = "built-in"
	PropInterconnect  = "Physical Interconnect Location"
	PropMediaIcon     = "IOMediaIcon"
	PropIconResource  = "IOBundleResourceFile"
	PropProtocolChars = "Protocol Characteristics"
)

// Dict is a nested map property value.
type Dict map[string]interface{}

// Clone returns a shallow copy of the dictionary. Callers mutate the
// copy and write it back rather than aliasing a shared value.
func (d Dict) Clone() Dict {
	out := make(Dict, len(d))
	for k, v := range d {
		out[k] = v
	}

	return out
}

// Entry is a non-owning handle to a registry entry. Implementations
// must be safe for concurrent use; enumeration results are snapshots.
type Entry interface {
	// Name returns the entry's registry name.
	Name() string
	// Property reads a named property. The second return is false when
	// the property is absent.
	Property(name string) (interface{}, bool)
	// SetProperty writes or replaces a named property. Last writer wins.
	SetProperty(name string, value interface{})
	// Children returns a snapshot of the entry's direct children in the
	// given plane.
	Children(plane Plane) []Entry
	// Descendants returns a snapshot of all entries below this one in
	// the given plane, preorder, not including the entry itself.
	Descendants(plane Plane) []Entry
}

// Registry resolves anchor entries by well-known path.
type Registry interface {
	// Lookup resolves a path such as "/" or "/PCI0/SATA" in a plane.
	// The second return is false when no entry exists at that path.
	Lookup(path string, plane Plane) (Entry, bool)
}
