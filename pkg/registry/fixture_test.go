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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `{
  "topology": {
    "name": "device-tree",
    "children": [
      {
        "name": "PCI0",
        "class_code": "0x060400",
        "configured": true,
        "children": [
          {
            "name": "SAT0",
            "class_code": "0x010601",
            "configured": true,
            "resourced": true,
            "properties": {
              "Protocol Characteristics": {"Physical Interconnect": "SATA"}
            },
            "service": [
              {"name": "AppleAHCI", "service": [{"name": "IOAHCIDevice"}]}
            ]
          }
        ]
      }
    ]
  }
}`

func TestParseFixture(t *testing.T) {
	reg, err := ParseFixture([]byte(sampleFixture))
	require.NoError(t, err)

	root, ok := reg.Lookup("/", PlaneTopology)
	require.True(t, ok)
	assert.Equal(t, "device-tree", root.Name())

	sata, ok := reg.Lookup("/PCI0/SAT0", PlaneTopology)
	require.True(t, ok)

	code, ok := DecodeClassCode(mustProp(t, sata, PropClassCode))
	require.True(t, ok)
	assert.Equal(t, uint32(0x010601), code)

	assert.Equal(t, true, mustProp(t, sata, PropConfigured))
	assert.Equal(t, true, mustProp(t, sata, PropResourced))

	// Nested JSON maps become Dict values.
	proto, isDict := mustProp(t, sata, PropProtocolChars).(Dict)
	require.True(t, isDict)
	assert.Equal(t, "SATA", proto["Physical Interconnect"])

	// Service-plane graph is recursive.
	svc := sata.Descendants(PlaneService)
	require.Len(t, svc, 2)
	assert.Equal(t, "AppleAHCI", svc[0].Name())
	assert.Equal(t, "IOAHCIDevice", svc[1].Name())
}

func TestParseFixtureErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"no topology", `{}`},
		{"bad class code", `{"topology":{"name":"r","children":[{"name":"d","class_code":"zz"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := LoadFixture("/nonexistent/topology.json")
	assert.Error(t, err)
}

func mustProp(t *testing.T, e Entry, name string) interface{} {
	t.Helper()

	v, ok := e.Property(name)
	require.True(t, ok, "property %q missing", name)

	return v
}
