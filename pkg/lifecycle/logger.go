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

// Package lifecycle wires process-level concerns for the internalized daemon.
package lifecycle

import (
	"github.com/carverauto/internalize/pkg/logger"
)

// CreateLogger creates a new logger instance with the provided configuration.
// This returns a logger that can be injected into services.
func CreateLogger(config *logger.Config) (logger.Logger, error) {
	return logger.New(config)
}

// CreateComponentLogger creates a logger for a specific component.
func CreateComponentLogger(component string, config *logger.Config) (logger.Logger, error) {
	base, err := logger.New(config)
	if err != nil {
		return nil, err
	}

	return base.Component(component), nil
}
