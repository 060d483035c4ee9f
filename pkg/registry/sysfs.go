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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carverauto/internalize/pkg/logger"
)

// SnapshotSysfs builds an in-memory registry from a sysfs-style PCI
// device tree (e.g. /sys/devices). Directory nesting becomes the
// topology plane; a device's bound driver becomes a service-plane
// child. Devices present in sysfs are already enumerated by the
// kernel, so configured/resourced are set on every entry.
//
// The snapshot is read-only with respect to sysfs: property writes
// land in the in-memory copy only.
func SnapshotSysfs(root string, log logger.Logger) (*MemoryRegistry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read sysfs root '%s': %w", root, err)
	}

	anchor := NewEntry("device-tree")

	for _, de := range entries {
		if !de.IsDir() || !strings.HasPrefix(de.Name(), "pci") {
			continue
		}

		// Expose PCI domain roots under the bridge-name prefix the
		// locator scans for, mirroring the host's PC* root naming.
		domain := NewEntry("PC" + strings.TrimPrefix(de.Name(), "pci"))
		domain.SetProperty(PropConfigured, true)
		domain.SetProperty(PropClassCode, EncodeClassCode(0x060400))

		scanSysfsDir(filepath.Join(root, de.Name()), domain, log)
		anchor.AddChild(PlaneTopology, domain)
	}

	reg := NewMemoryRegistry()
	reg.SetRoot(PlaneTopology, anchor)

	return reg, nil
}

func scanSysfsDir(dir string, parent *MemoryEntry, log logger.Logger) {
	children, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("skipping unreadable sysfs directory")
		return
	}

	for _, de := range children {
		if !de.IsDir() || !isPCIAddress(de.Name()) {
			continue
		}

		devDir := filepath.Join(dir, de.Name())

		code, ok := readSysfsClass(devDir)
		if !ok {
			continue
		}

		entry := NewEntry(de.Name())
		entry.SetProperty(PropClassCode, EncodeClassCode(code))
		entry.SetProperty(PropConfigured, true)
		entry.SetProperty(PropResourced, true)

		for _, attr := range []string{"vendor", "device"} {
			if v, ok := readSysfsAttr(filepath.Join(devDir, attr)); ok {
				entry.SetProperty(attr, v)
			}
		}

		if driver, ok := readDriverLink(devDir); ok {
			entry.AddChild(PlaneService, NewEntry(driver))
		}

		parent.AddChild(PlaneTopology, entry)
		scanSysfsDir(devDir, entry, log)
	}
}

// isPCIAddress reports whether a directory name looks like a PCI
// address (dddd:bb:dd.f).
func isPCIAddress(name string) bool {
	return strings.Count(name, ":") == 2 && strings.Contains(name, ".")
}

// readSysfsClass parses the device's class attribute ("0x010601").
// sysfs encodes class/subclass/prog-if without the trailing revision
// byte, which matches the engine's 24-bit classification input.
func readSysfsClass(devDir string) (uint32, bool) {
	raw, ok := readSysfsAttr(filepath.Join(devDir, "class"))
	if !ok {
		return 0, false
	}

	code, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return 0, false
	}

	return uint32(code), true
}

func readSysfsAttr(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSpace(string(data)), true
}

func readDriverLink(devDir string) (string, bool) {
	target, err := os.Readlink(filepath.Join(devDir, "driver"))
	if err != nil {
		return "", false
	}

	return filepath.Base(target), true
}
