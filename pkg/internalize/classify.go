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

// Classification is the device category derived from a PCI class code.
type Classification int

const (
	// Other covers every class code outside the known table.
	Other Classification = iota
	// SATA is an AHCI SATA controller.
	SATA
	// NVMe is an NVM Express controller.
	NVMe
	// RAIDController is a hardware RAID controller.
	RAIDController
	// PCIBridge is a PCI-to-PCI bridge.
	PCIBridge
)

func (c Classification) String() string {
	switch c {
	case SATA:
		return "sata"
	case NVMe:
		return "nvme"
	case RAIDController:
		return "raid"
	case PCIBridge:
		return "pci-bridge"
	case Other:
		return "other"
	default:
		return "other"
	}
}

// PCI class codes are the 24-bit class/subclass/prog-if triple.
const (
	classCodeAHCI uint32 = 0x010601
	classCodeNVMe uint32 = 0x010802

	// Subclasses matched regardless of programming interface.
	subclassRAID      uint32 = 0x0104
	subclassPCIBridge uint32 = 0x0604
)

// Classify maps a raw class code to a device category. It is a pure
// function of the code: unknown codes map to Other, never an error.
//
// RAID controllers from LSI/Broadcom, Adaptec, HighPoint, ATTO,
// Promise, Areca, Intel and AMD all enumerate with the standard RAID
// subclass, so the match ignores the prog-if byte.
func Classify(code uint32) Classification {
	switch {
	case code == classCodeAHCI:
		return SATA
	case code == classCodeNVMe:
		return NVMe
	case code>>8 == subclassRAID:
		return RAIDController
	case code>>8 == subclassPCIBridge:
		return PCIBridge
	default:
		return Other
	}
}
