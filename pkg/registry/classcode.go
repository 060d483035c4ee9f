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

import "encoding/binary"

// The class-code property is a 4-byte little-endian blob holding the
// 24-bit PCI class/subclass/prog-if triple.

// EncodeClassCode packs a class code into the wire blob format.
func EncodeClassCode(code uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, code)

	return b
}

// DecodeClassCode reads a class code from a property value. It returns
// false when the value is absent, not a blob, or truncated; callers
// treat that as unclassifiable and skip the entry.
func DecodeClassCode(v interface{}) (uint32, bool) {
	b, ok := v.([]byte)
	if !ok || len(b) < 4 {
		return 0, false
	}

	return binary.LittleEndian.Uint32(b), true
}
