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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/carverauto/internalize/pkg/config"
	"github.com/carverauto/internalize/pkg/internalize"
	"github.com/carverauto/internalize/pkg/lifecycle"
	"github.com/carverauto/internalize/pkg/logger"
	"github.com/carverauto/internalize/pkg/natsutil"
	"github.com/carverauto/internalize/pkg/registry"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
	errNoRegistrySource   = errors.New("config must set registry_fixture or sysfs_root")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/internalize/internalized.json", "Path to internalized config file")
	flag.Parse()

	ctx := context.Background()

	cfgLoader := config.NewConfig(nil)

	var cfg internalize.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	mainLogger, err := lifecycle.CreateComponentLogger("internalized", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	hostname := hostContext(mainLogger)

	reg, err := buildRegistry(&cfg, mainLogger)
	if err != nil {
		return err
	}

	var reporter internalize.Reporter

	if cfg.Events.Enabled {
		publisher, nc, err := natsutil.ConnectWithEventPublisher(ctx, cfg.NATS, &cfg.Events, hostname)
		if err != nil {
			return fmt.Errorf("failed to set up event publishing: %w", err)
		}
		defer nc.Close()

		reporter = publisher
	}

	// nil clock defaults to the real clock in internalize.New
	svc, err := internalize.New(&cfg, reg, nil, reporter, mainLogger)
	if err != nil {
		return err
	}

	summary := svc.Run(ctx)
	if !summary.RootFound {
		mainLogger.Warn().Msg("walk finished without locating a PCI root")
	}

	return nil
}

// buildRegistry selects the registry source configured for this run: a
// live sysfs snapshot or a JSON topology fixture.
func buildRegistry(cfg *internalize.Config, log logger.Logger) (registry.Registry, error) {
	switch {
	case cfg.SysfsRoot != "":
		return registry.SnapshotSysfs(cfg.SysfsRoot, log)
	case cfg.RegistryFixture != "":
		return registry.LoadFixture(cfg.RegistryFixture)
	default:
		return nil, errNoRegistrySource
	}
}

// hostContext logs where this run happens and returns the hostname
// stamped onto outgoing events.
func hostContext(log logger.Logger) string {
	info, err := host.Info()
	if err != nil {
		log.Warn().Err(err).Msg("could not read host info")
		return ""
	}

	log.Info().
		Str("hostname", info.Hostname).
		Str("platform", info.Platform).
		Str("kernel", info.KernelVersion).
		Msg("host context")

	return info.Hostname
}
