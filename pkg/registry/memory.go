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
	"strings"
	"sync"
)

// MemoryRegistry is an in-memory Registry implementation backing the
// fixture and sysfs adapters. A separate actor (test or host shim) may
// flip readiness flags while a walk is in progress.
type MemoryRegistry struct {
	mu    sync.RWMutex
	roots map[Plane]*MemoryEntry
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{roots: make(map[Plane]*MemoryEntry)}
}

// SetRoot installs the anchor entry for a plane.
func (r *MemoryRegistry) SetRoot(plane Plane, entry *MemoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots[plane] = entry
}

// Lookup implements Registry. Path components are entry names
// separated by '/'; "/" resolves to the plane's root.
func (r *MemoryRegistry) Lookup(path string, plane Plane) (Entry, bool) {
	r.mu.RLock()
	root := r.roots[plane]
	r.mu.RUnlock()

	if root == nil {
		return nil, false
	}

	current := root

	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}

		next := current.childByName(plane, part)
		if next == nil {
			return nil, false
		}

		current = next
	}

	return current, true
}

// MemoryEntry is the in-memory Entry implementation.
type MemoryEntry struct {
	mu       sync.RWMutex
	name     string
	props    map[string]interface{}
	children map[Plane][]*MemoryEntry
}

// NewEntry creates a detached entry with the given name.
func NewEntry(name string) *MemoryEntry {
	return &MemoryEntry{
		name:     name,
		props:    make(map[string]interface{}),
		children: make(map[Plane][]*MemoryEntry),
	}
}

// AddChild appends a child in the given plane.
func (e *MemoryEntry) AddChild(plane Plane, child *MemoryEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.children[plane] = append(e.children[plane], child)
}

func (e *MemoryEntry) Name() string {
	return e.name
}

func (e *MemoryEntry) Property(name string) (interface{}, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, ok := e.props[name]

	return v, ok
}

func (e *MemoryEntry) SetProperty(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.props[name] = value
}

func (e *MemoryEntry) Children(plane Plane) []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	kids := e.children[plane]
	out := make([]Entry, len(kids))

	for i, c := range kids {
		out[i] = c
	}

	return out
}

func (e *MemoryEntry) Descendants(plane Plane) []Entry {
	var out []Entry

	for _, child := range e.Children(plane) {
		out = append(out, child)
		out = append(out, child.Descendants(plane)...)
	}

	return out
}

func (e *MemoryEntry) childByName(plane Plane, name string) *MemoryEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, c := range e.children[plane] {
		if c.name == name {
			return c
		}
	}

	return nil
}
