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

package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	log, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, log)

	// Default level is info unless DEBUG/LOG_LEVEL overrides it.
	assert.NotNil(t, log.Info())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "not-a-level"})
	require.Error(t, err)
}

func TestNewDebugOverridesLevel(t *testing.T) {
	log, err := New(&Config{Level: "error", Debug: true})
	require.NoError(t, err)

	// Debug flag wins over the configured level.
	assert.True(t, log.logger.GetLevel() <= zerolog.DebugLevel)
}

func TestNewLeavesGlobalTimeFormatAlone(t *testing.T) {
	before := zerolog.TimeFieldFormat

	_, err := New(&Config{TimeFormat: time.StampMicro})
	require.NoError(t, err)
	assert.Equal(t, before, zerolog.TimeFieldFormat)
}

func TestTimestampHookFormat(t *testing.T) {
	var buf bytes.Buffer

	zlog := zerolog.New(&buf).Hook(timestampHook{format: time.RFC3339})
	zlog.Info().Msg("stamped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	ts, ok := entry[zerolog.TimestampFieldName].(string)
	require.True(t, ok, "event must carry a time field")

	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestTestLoggerDiscards(t *testing.T) {
	log := NewTestLogger()

	// Must not panic; events go nowhere.
	log.Info().Str("k", "v").Msg("discarded")
	log.Error().Msg("also discarded")
	log.SetDebug(true)
}
