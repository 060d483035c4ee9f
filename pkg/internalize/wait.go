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
	"time"

	"github.com/carverauto/internalize/pkg/registry"
)

// Outcome is the result of a bounded readiness wait.
type Outcome int

const (
	// Ready means the observed property read true within the budget.
	Ready Outcome = iota
	// TimedOut means the attempt budget was exhausted first.
	TimedOut
)

func (o Outcome) String() string {
	if o == Ready {
		return "ready"
	}

	return "timed-out"
}

// awaitProperty polls a boolean property until it reads true or
// maxAttempts checks have been made, sleeping pollInterval between
// checks. A property that is already true returns Ready with zero
// sleeps. The entry is never mutated.
//
// The host exposes no notification channel for these flags, so
// bounded polling is the synchronization primitive here.
func awaitProperty(clk Clock, entry registry.Entry, name string, pollInterval time.Duration, maxAttempts int) Outcome {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if boolProperty(entry, name) {
			return Ready
		}

		clk.Sleep(pollInterval)
	}

	return TimedOut
}

// boolProperty reads a property and reports whether it is the boolean
// true. Absent or non-boolean values read as false.
func boolProperty(entry registry.Entry, name string) bool {
	v, ok := entry.Property(name)
	if !ok {
		return false
	}

	b, ok := v.(bool)

	return ok && b
}
